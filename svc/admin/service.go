// Package admin is the privileged override surface: lifecycle operations on
// any subscription, user suspension and deletion cascades, plan
// administration, invoice status management, and direct notification
// delivery. Every operation requires an admin actor; ownership checks do not
// apply here.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/membercore/membership/pkg/logger"
	"github.com/membercore/membership/svc/analytics"
	"github.com/membercore/membership/svc/identity"
	"github.com/membercore/membership/svc/member"
	"github.com/membercore/membership/svc/notification"
	"github.com/membercore/membership/svc/plan"
	"github.com/membercore/membership/svc/subscription"
)

// Service implements the admin override surface against the same stores the
// lifecycle engine writes to.
type Service struct {
	users     *member.Service
	plans     *plan.Service
	subs      subscription.Store
	invoices  subscription.InvoiceStore
	notifier  *notification.Service
	analytics *analytics.Service
	log       *slog.Logger
}

// NewService creates the admin service. Panics on any nil dependency except
// the logger.
func NewService(users *member.Service, plans *plan.Service, subs subscription.Store, invoices subscription.InvoiceStore, notifier *notification.Service, analyticsService *analytics.Service, log *slog.Logger) *Service {
	if users == nil {
		panic("admin: member service is required")
	}
	if plans == nil {
		panic("admin: plan service is required")
	}
	if subs == nil {
		panic("admin: subscription store is required")
	}
	if invoices == nil {
		panic("admin: invoice store is required")
	}
	if notifier == nil {
		panic("admin: notification service is required")
	}
	if analyticsService == nil {
		panic("admin: analytics service is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:     users,
		plans:     plans,
		subs:      subs,
		invoices:  invoices,
		notifier:  notifier,
		analytics: analyticsService,
		log:       log,
	}
}

func requireAdmin(actor identity.Actor) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

// ListUsers returns users matching the filter.
func (s *Service) ListUsers(ctx context.Context, actor identity.Actor, filter member.SearchFilter) ([]member.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx, filter)
}

// UserDetails is a user joined with their subscriptions and invoices.
type UserDetails struct {
	User          member.User                 `json:"user"`
	Subscriptions []subscription.Subscription `json:"subscriptions"`
	Invoices      []subscription.Invoice      `json:"invoices"`
}

// GetUserDetails returns the user together with their subscriptions and
// invoices.
func (s *Service) GetUserDetails(ctx context.Context, actor identity.Actor, userID string) (*UserDetails, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	subs, err := s.subs.List(ctx, subscription.ListFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List(ctx, subscription.InvoiceFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	return &UserDetails{User: *u, Subscriptions: subs, Invoices: invoices}, nil
}

// UpdateUser patches the enumerated user fields.
func (s *Service) UpdateUser(ctx context.Context, actor identity.Actor, userID string, params member.UpdateParams) (*member.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, userID, params)
}

// SuspendUser marks the user suspended, cancels every subscription they
// hold, and informs them by in-app notification and email.
func (s *Service) SuspendUser(ctx context.Context, actor identity.Actor, userID, reason string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := s.users.Suspend(ctx, userID); err != nil {
		return err
	}

	if err := s.cancelAllSubscriptions(ctx, userID, fmt.Sprintf("Account suspended: %s", reason)); err != nil {
		return err
	}

	if _, err := s.notifier.NotifyInApp(ctx, userID, "Account Suspended",
		fmt.Sprintf("Your account has been suspended. Reason: %s", reason), notification.TypeError, nil); err != nil {
		s.log.WarnContext(ctx, "suspension notification failed", logger.UserID(userID), logger.Error(err))
	}
	if err := s.notifier.SendAccountSuspensionEmail(ctx, u.Email, u.FullName(), reason); err != nil {
		s.log.WarnContext(ctx, "suspension email failed", logger.UserID(userID), logger.Error(err))
	}

	s.log.InfoContext(ctx, "user suspended", logger.UserID(userID))
	return nil
}

// DeleteUser cancels every subscription the user holds and removes the user
// record.
func (s *Service) DeleteUser(ctx context.Context, actor identity.Actor, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}

	if err := s.cancelAllSubscriptions(ctx, userID, "Account deleted"); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user deleted", logger.UserID(userID))
	return nil
}

func (s *Service) cancelAllSubscriptions(ctx context.Context, userID, reason string) error {
	subs, err := s.subs.List(ctx, subscription.ListFilter{UserID: userID})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range subs {
		sub := subs[i]
		if sub.Status == subscription.StatusCancelled {
			continue
		}
		sub.ApplyCancel(reason, now)
		if err := s.subs.Update(ctx, &sub); err != nil {
			return err
		}
	}
	return nil
}

// ListSubscriptions returns subscriptions matching the filter.
func (s *Service) ListSubscriptions(ctx context.Context, actor identity.Actor, filter subscription.ListFilter) ([]subscription.Subscription, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.subs.List(ctx, filter)
}

// SubscriptionDetails joins a subscription with its user, plan, and
// invoices.
type SubscriptionDetails struct {
	Subscription subscription.Subscription `json:"subscription"`
	User         *member.User              `json:"user,omitempty"`
	Plan         *plan.Plan                `json:"plan,omitempty"`
	Invoices     []subscription.Invoice    `json:"invoices"`
}

// GetSubscriptionDetails returns the subscription joined with its owner,
// plan, and invoices. Missing user or plan records leave the fields nil.
func (s *Service) GetSubscriptionDetails(ctx context.Context, actor identity.Actor, subscriptionID string) (*SubscriptionDetails, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	sub, err := s.subs.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	details := &SubscriptionDetails{Subscription: *sub}
	if u, err := s.users.Get(ctx, sub.UserID); err == nil {
		details.User = u
	}
	if p, err := s.plans.Get(ctx, sub.PlanID); err == nil {
		details.Plan = p
	}

	invoices, err := s.invoices.List(ctx, subscription.InvoiceFilter{SubscriptionID: sub.ID})
	if err != nil {
		return nil, err
	}
	details.Invoices = invoices
	return details, nil
}

// SubscriptionPatch enumerates the fields an admin may override directly.
// Nil pointers leave the field unchanged.
type SubscriptionPatch struct {
	AutoRenew   *bool      `json:"autoRenew,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	RenewalDate *time.Time `json:"renewalDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// UpdateSubscription applies the patch and returns the updated record.
func (s *Service) UpdateSubscription(ctx context.Context, actor identity.Actor, subscriptionID string, patch SubscriptionPatch) (*subscription.Subscription, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	sub, err := s.subs.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if patch.AutoRenew != nil {
		sub.AutoRenew = *patch.AutoRenew
	}
	if patch.Notes != nil {
		sub.Notes = patch.Notes
	}
	if patch.RenewalDate != nil {
		sub.RenewalDate = *patch.RenewalDate
	}
	if patch.EndDate != nil {
		sub.EndDate = *patch.EndDate
	}

	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "subscription updated by admin", logger.SubscriptionID(sub.ID))
	return sub, nil
}

// PauseSubscription pauses any subscription, stamping the reason into its
// notes and warning the owner.
func (s *Service) PauseSubscription(ctx context.Context, actor identity.Actor, subscriptionID, reason string) (*subscription.Subscription, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	sub, err := s.subs.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	sub.ApplyPause()
	notes := fmt.Sprintf("Paused by admin: %s", reason)
	sub.Notes = &notes

	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, err
	}

	if _, err := s.notifier.NotifyInApp(ctx, sub.UserID, "Subscription Paused",
		fmt.Sprintf("Your %s subscription has been paused: %s", sub.PlanName, reason), notification.TypeWarning, nil); err != nil {
		s.log.WarnContext(ctx, "pause notification failed", logger.SubscriptionID(sub.ID), logger.Error(err))
	}

	s.log.InfoContext(ctx, "subscription paused by admin", logger.SubscriptionID(sub.ID))
	return sub, nil
}

// ResumeSubscription reactivates a paused subscription.
func (s *Service) ResumeSubscription(ctx context.Context, actor identity.Actor, subscriptionID string) (*subscription.Subscription, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	sub, err := s.subs.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if err := sub.ApplyResume(); err != nil {
		return nil, err
	}
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, err
	}

	if _, err := s.notifier.NotifyInApp(ctx, sub.UserID, "Subscription Resumed",
		fmt.Sprintf("Your %s subscription has been resumed.", sub.PlanName), notification.TypeSuccess, nil); err != nil {
		s.log.WarnContext(ctx, "resume notification failed", logger.SubscriptionID(sub.ID), logger.Error(err))
	}

	s.log.InfoContext(ctx, "subscription resumed by admin", logger.SubscriptionID(sub.ID))
	return sub, nil
}

// CancelSubscription cancels any subscription with the given reason and
// informs the owner by notification and email.
func (s *Service) CancelSubscription(ctx context.Context, actor identity.Actor, subscriptionID, reason string) (*subscription.Subscription, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	sub, err := s.subs.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	sub.ApplyCancel(reason, time.Now().UTC())
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, err
	}

	if _, err := s.notifier.NotifyInApp(ctx, sub.UserID, "Subscription Cancelled",
		fmt.Sprintf("Your %s subscription has been cancelled: %s", sub.PlanName, reason), notification.TypeError, nil); err != nil {
		s.log.WarnContext(ctx, "cancel notification failed", logger.SubscriptionID(sub.ID), logger.Error(err))
	}
	if u, err := s.users.Get(ctx, sub.UserID); err == nil {
		if err := s.notifier.SendSubscriptionCancellationEmail(ctx, u.Email, u.FullName(), sub.PlanName); err != nil {
			s.log.WarnContext(ctx, "cancel email failed", logger.SubscriptionID(sub.ID), logger.Error(err))
		}
	}

	s.log.InfoContext(ctx, "subscription cancelled by admin", logger.SubscriptionID(sub.ID))
	return sub, nil
}

// ListPlans returns every plan, active or not.
func (s *Service) ListPlans(ctx context.Context, actor identity.Actor) ([]plan.Plan, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.plans.ListAll(ctx)
}

// CreatePlan adds a plan to the catalog.
func (s *Service) CreatePlan(ctx context.Context, actor identity.Actor, params plan.CreateParams) (*plan.Plan, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.plans.Create(ctx, params)
}

// UpdatePlan patches a plan.
func (s *Service) UpdatePlan(ctx context.Context, actor identity.Actor, planID string, params plan.UpdateParams) (*plan.Plan, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.plans.Update(ctx, planID, params)
}

// DeactivatePlan soft-deletes a plan; existing subscriptions keep their
// snapshotted terms.
func (s *Service) DeactivatePlan(ctx context.Context, actor identity.Actor, planID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.plans.Deactivate(ctx, planID)
}

// ListInvoices returns invoices matching the filter.
func (s *Service) ListInvoices(ctx context.Context, actor identity.Actor, filter subscription.InvoiceFilter) ([]subscription.Invoice, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.invoices.List(ctx, filter)
}

// UpdateInvoiceStatus changes an invoice's payment state. Marking it paid
// stamps paidAt with the current time.
func (s *Service) UpdateInvoiceStatus(ctx context.Context, actor identity.Actor, invoiceID string, status subscription.InvoiceStatus) (*subscription.Invoice, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, subscription.ErrInvalidInvoiceStatus
	}

	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	inv.Status = status
	if status == subscription.InvoicePaid {
		now := time.Now().UTC()
		inv.PaidAt = &now
	}

	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// SendNotification delivers a single in-app notification. The recipient must
// exist.
func (s *Service) SendNotification(ctx context.Context, actor identity.Actor, userID, title, message string, typ notification.Type) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}

	_, err := s.notifier.NotifyInApp(ctx, userID, title, message, typ, nil)
	return err
}

// BulkResult reports the outcome of a bulk notification send.
type BulkResult struct {
	TotalSent int      `json:"totalSent"`
	Failed    []string `json:"failed"`
}

// SendBulkNotification delivers the notification to every recipient
// independently. A failed recipient is collected into the result and never
// aborts the rest.
func (s *Service) SendBulkNotification(ctx context.Context, actor identity.Actor, userIDs []string, title, message string, typ notification.Type) (*BulkResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, ErrNoRecipients
	}

	result := &BulkResult{Failed: []string{}}
	for _, userID := range userIDs {
		if _, err := s.notifier.NotifyInApp(ctx, userID, title, message, typ, nil); err != nil {
			s.log.WarnContext(ctx, "bulk notification failed for recipient", logger.UserID(userID), logger.Error(err))
			result.Failed = append(result.Failed, userID)
			continue
		}
		result.TotalSent++
	}

	s.log.InfoContext(ctx, "bulk notification sent",
		slog.Int("recipients", len(userIDs)), slog.Int("failed", len(result.Failed)))
	return result, nil
}

// Report aggregates all subscriptions into the operational report.
func (s *Service) Report(ctx context.Context, actor identity.Actor) (*analytics.Report, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.analytics.BuildReport(ctx)
}
