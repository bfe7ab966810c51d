package notification

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/membercore/membership/pkg/email"
	"github.com/membercore/membership/pkg/logger"
)

// Service delivers in-app notifications and transactional emails.
type Service struct {
	storage Storage
	mailer  email.EmailSender
	log     *slog.Logger
}

// NewService creates the notification service. Panics on a nil storage or
// mailer.
func NewService(storage Storage, mailer email.EmailSender, log *slog.Logger) *Service {
	if storage == nil {
		panic("notification: Storage is required")
	}
	if mailer == nil {
		panic("notification: EmailSender is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{storage: storage, mailer: mailer, log: log}
}

// NotifyInApp persists a new in-app notification for the user and returns it.
func (s *Service) NotifyInApp(ctx context.Context, userID, title, message string, typ Type, actionURL *string) (*Notification, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrMessageRequired
	}
	if !typ.Valid() {
		return nil, ErrInvalidType
	}

	n := &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		ActionURL: actionURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.Create(ctx, n); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "in-app notification created", logger.UserID(userID), logger.Event(string(typ)))
	return n, nil
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	return s.storage.List(ctx, userID, opts)
}

// MarkRead marks the given notifications read for the user.
func (s *Service) MarkRead(ctx context.Context, userID string, notificationIDs ...string) error {
	return s.storage.MarkRead(ctx, userID, notificationIDs...)
}

// MarkAllRead marks every unread notification of the user read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.storage.MarkAllRead(ctx, userID)
}

// CountUnread returns the user's unread notification count.
func (s *Service) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.storage.CountUnread(ctx, userID)
}

// SendWelcomeEmail greets a newly registered user.
func (s *Service) SendWelcomeEmail(ctx context.Context, emailAddr, name string) error {
	msg, err := welcomeEmail(name, emailAddr)
	if err != nil {
		return err
	}
	return s.send(ctx, emailAddr, msg, "welcome")
}

// SendSubscriptionActivationEmail confirms a newly activated subscription.
func (s *Service) SendSubscriptionActivationEmail(ctx context.Context, emailAddr, name, planName string, price float64, currency string, startDate time.Time) error {
	msg, err := activationEmail(name, planName, price, currency, startDate)
	if err != nil {
		return err
	}
	return s.send(ctx, emailAddr, msg, "subscription-activation")
}

// SendRenewalReminderEmail warns the user about an upcoming renewal.
func (s *Service) SendRenewalReminderEmail(ctx context.Context, emailAddr, name, planName string, renewalDate time.Time) error {
	msg, err := renewalReminderEmail(name, planName, renewalDate)
	if err != nil {
		return err
	}
	return s.send(ctx, emailAddr, msg, "renewal-reminder")
}

// SendSubscriptionCancellationEmail confirms a cancellation.
func (s *Service) SendSubscriptionCancellationEmail(ctx context.Context, emailAddr, name, planName string) error {
	msg, err := cancellationEmail(name, planName)
	if err != nil {
		return err
	}
	return s.send(ctx, emailAddr, msg, "subscription-cancellation")
}

// SendInvoiceEmail notifies the user of a freshly generated invoice.
func (s *Service) SendInvoiceEmail(ctx context.Context, emailAddr, name, invoiceID string, amount float64, currency string, dueDate time.Time) error {
	msg, err := invoiceEmail(name, invoiceID, amount, currency, dueDate)
	if err != nil {
		return err
	}
	return s.send(ctx, emailAddr, msg, "invoice")
}

// SendPaymentConfirmationEmail acknowledges a received payment.
func (s *Service) SendPaymentConfirmationEmail(ctx context.Context, emailAddr, name string, amount float64, currency, transactionID string, date time.Time) error {
	msg, err := paymentConfirmationEmail(name, amount, currency, transactionID, date)
	if err != nil {
		return err
	}
	return s.send(ctx, emailAddr, msg, "payment-confirmation")
}

// SendAccountSuspensionEmail informs the user their account was suspended.
func (s *Service) SendAccountSuspensionEmail(ctx context.Context, emailAddr, name, reason string) error {
	msg, err := suspensionEmail(name, reason)
	if err != nil {
		return err
	}
	return s.send(ctx, emailAddr, msg, "account-suspension")
}

// SendAdminAlert delivers an operational alert to an admin mailbox.
func (s *Service) SendAdminAlert(ctx context.Context, adminEmail, subject, message string) error {
	msg, err := adminAlertEmail(subject, message)
	if err != nil {
		return err
	}
	return s.send(ctx, adminEmail, msg, "admin-alert")
}

func (s *Service) send(ctx context.Context, to string, msg renderedEmail, tag string) error {
	err := s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  msg.Subject,
		BodyHTML: msg.HTML,
		Tag:      tag,
	})
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "email sent", logger.Event(tag))
	return nil
}
