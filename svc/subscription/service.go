package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/membercore/membership/pkg/async"
	"github.com/membercore/membership/pkg/logger"
	"github.com/membercore/membership/svc/identity"
	"github.com/membercore/membership/svc/member"
	"github.com/membercore/membership/svc/notification"
	"github.com/membercore/membership/svc/plan"
)

// PlanCatalog resolves plans for subscription creation.
type PlanCatalog interface {
	Get(ctx context.Context, planID string) (*plan.Plan, error)
}

// UserDirectory resolves user records for email delivery.
type UserDirectory interface {
	Get(ctx context.Context, userID string) (*member.User, error)
}

// Notifier delivers the in-app and email side effects of lifecycle
// transitions.
type Notifier interface {
	NotifyInApp(ctx context.Context, userID, title, message string, typ notification.Type, actionURL *string) (*notification.Notification, error)
	SendSubscriptionActivationEmail(ctx context.Context, email, name, planName string, price float64, currency string, startDate time.Time) error
	SendSubscriptionCancellationEmail(ctx context.Context, email, name, planName string) error
}

// Recorder appends analytics events.
type Recorder interface {
	Record(ctx context.Context, userID, event string, metadata map[string]any) error
}

// Service is the subscription lifecycle engine. Every operation persists
// first, then dispatches side effects concurrently; a failed side effect is
// logged and swallowed, never surfaced to the caller.
type Service struct {
	store    Store
	invoices InvoiceStore
	catalog  PlanCatalog
	users    UserDirectory
	notifier Notifier
	recorder Recorder
	log      *slog.Logger
}

// NewService creates the lifecycle engine. Panics on any nil dependency
// except the logger.
func NewService(store Store, invoices InvoiceStore, catalog PlanCatalog, users UserDirectory, notifier Notifier, recorder Recorder, log *slog.Logger) *Service {
	if store == nil {
		panic("subscription: Store is required")
	}
	if invoices == nil {
		panic("subscription: InvoiceStore is required")
	}
	if catalog == nil {
		panic("subscription: PlanCatalog is required")
	}
	if users == nil {
		panic("subscription: UserDirectory is required")
	}
	if notifier == nil {
		panic("subscription: Notifier is required")
	}
	if recorder == nil {
		panic("subscription: Recorder is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:    store,
		invoices: invoices,
		catalog:  catalog,
		users:    users,
		notifier: notifier,
		recorder: recorder,
		log:      log,
	}
}

// CreateParams describes a new subscription request.
type CreateParams struct {
	PlanID    string
	AutoRenew bool
	Notes     *string
}

// Create subscribes the actor to the given plan. The plan must exist and be
// active; its name, price, currency, and cycle are snapshotted onto the new
// subscription, which starts active immediately.
func (s *Service) Create(ctx context.Context, actor identity.Actor, params CreateParams) (*Subscription, error) {
	p, err := s.catalog.Get(ctx, params.PlanID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrPlanNotAvailable
	}

	now := time.Now().UTC()
	sub := &Subscription{
		ID:           uuid.NewString(),
		UserID:       actor.UserID,
		PlanID:       p.ID,
		PlanName:     p.Name,
		Price:        p.Price,
		Currency:     p.Currency,
		BillingCycle: p.BillingCycle,
		Status:       StatusActive,
		AutoRenew:    params.AutoRenew,
		Notes:        params.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	sub.anchorPeriod(now)

	if err := s.store.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "subscription created",
		logger.SubscriptionID(sub.ID), logger.UserID(actor.UserID), logger.PlanID(p.ID))

	s.dispatch(ctx, sub.ID,
		s.notifyEffect(sub.UserID, "Subscription Activated",
			fmt.Sprintf("Your %s subscription is now active!", sub.PlanName), notification.TypeSuccess),
		s.activationEmailEffect(sub),
		s.recordEffect(sub, "subscription_created"),
	)
	return sub, nil
}

// Renew starts a fresh billing period anchored at now and reactivates the
// subscription. Time remaining on the previous period is forfeited.
func (s *Service) Renew(ctx context.Context, actor identity.Actor, subscriptionID string) (*Subscription, error) {
	sub, err := s.owned(ctx, actor, subscriptionID)
	if err != nil {
		return nil, err
	}

	sub.ApplyRenew(time.Now().UTC())
	if err := s.store.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "subscription renewed", logger.SubscriptionID(sub.ID), logger.UserID(sub.UserID))

	s.dispatch(ctx, sub.ID,
		s.notifyEffect(sub.UserID, "Subscription Renewed",
			fmt.Sprintf("Your %s subscription has been renewed successfully.", sub.PlanName), notification.TypeSuccess),
		s.activationEmailEffect(sub),
		s.recordEffect(sub, "subscription_renewed"),
	)
	return sub, nil
}

// Cancel marks the subscription cancelled with the given reason. The reason
// must be non-empty. Cancelling an already-cancelled subscription succeeds
// and overwrites the stored reason.
func (s *Service) Cancel(ctx context.Context, actor identity.Actor, subscriptionID, reason string) (*Subscription, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrCancelReasonRequired
	}

	sub, err := s.owned(ctx, actor, subscriptionID)
	if err != nil {
		return nil, err
	}

	sub.ApplyCancel(reason, time.Now().UTC())
	if err := s.store.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "subscription cancelled", logger.SubscriptionID(sub.ID), logger.UserID(sub.UserID))

	s.dispatch(ctx, sub.ID,
		s.notifyEffect(sub.UserID, "Subscription Cancelled",
			fmt.Sprintf("Your %s subscription has been cancelled.", sub.PlanName), notification.TypeWarning),
		s.cancellationEmailEffect(sub),
		s.recordEffect(sub, "subscription_cancelled"),
	)
	return sub, nil
}

// Pause suspends the subscription without touching its billing dates.
func (s *Service) Pause(ctx context.Context, actor identity.Actor, subscriptionID string) (*Subscription, error) {
	sub, err := s.owned(ctx, actor, subscriptionID)
	if err != nil {
		return nil, err
	}

	sub.ApplyPause()
	if err := s.store.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "subscription paused", logger.SubscriptionID(sub.ID), logger.UserID(sub.UserID))

	s.dispatch(ctx, sub.ID,
		s.notifyEffect(sub.UserID, "Subscription Paused",
			fmt.Sprintf("Your %s subscription has been paused.", sub.PlanName), notification.TypeInfo),
	)
	return sub, nil
}

// Resume reactivates a paused subscription. The billing dates are left as
// they were when the subscription was paused.
func (s *Service) Resume(ctx context.Context, actor identity.Actor, subscriptionID string) (*Subscription, error) {
	sub, err := s.owned(ctx, actor, subscriptionID)
	if err != nil {
		return nil, err
	}

	if err := sub.ApplyResume(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "subscription resumed", logger.SubscriptionID(sub.ID), logger.UserID(sub.UserID))

	s.dispatch(ctx, sub.ID,
		s.notifyEffect(sub.UserID, "Subscription Resumed",
			fmt.Sprintf("Your %s subscription has been resumed.", sub.PlanName), notification.TypeSuccess),
	)
	return sub, nil
}

// UpdateAutoRenew sets the auto-renewal flag.
func (s *Service) UpdateAutoRenew(ctx context.Context, actor identity.Actor, subscriptionID string, autoRenew bool) (*Subscription, error) {
	sub, err := s.owned(ctx, actor, subscriptionID)
	if err != nil {
		return nil, err
	}

	sub.AutoRenew = autoRenew
	if err := s.store.Update(ctx, sub); err != nil {
		return nil, err
	}

	state := "disabled"
	if autoRenew {
		state = "enabled"
	}
	s.dispatch(ctx, sub.ID,
		s.notifyEffect(sub.UserID, "Subscription Settings Updated",
			fmt.Sprintf("Auto-renewal has been %s.", state), notification.TypeInfo),
	)
	return sub, nil
}

// Get returns the subscription joined with its plan and invoices. A deleted
// plan leaves Details.Plan nil.
func (s *Service) Get(ctx context.Context, actor identity.Actor, subscriptionID string) (*Details, error) {
	sub, err := s.owned(ctx, actor, subscriptionID)
	if err != nil {
		return nil, err
	}

	details := &Details{Subscription: *sub}

	if p, err := s.catalog.Get(ctx, sub.PlanID); err == nil {
		details.Plan = p
	}

	invoices, err := s.invoices.List(ctx, InvoiceFilter{SubscriptionID: sub.ID})
	if err != nil {
		return nil, err
	}
	details.Invoices = invoices
	return details, nil
}

// ListForUser returns the user's subscriptions, newest first. Non-admin
// actors can only list their own.
func (s *Service) ListForUser(ctx context.Context, actor identity.Actor, userID string) ([]Subscription, error) {
	if !actor.Owns(userID) {
		return nil, ErrNotOwner
	}
	return s.store.List(ctx, ListFilter{UserID: userID})
}

// ListInvoicesForUser returns the user's invoices, optionally filtered by
// status.
func (s *Service) ListInvoicesForUser(ctx context.Context, actor identity.Actor, userID string, status InvoiceStatus) ([]Invoice, error) {
	if !actor.Owns(userID) {
		return nil, ErrNotOwner
	}
	if status != "" && !status.Valid() {
		return nil, ErrInvalidInvoiceStatus
	}
	return s.invoices.List(ctx, InvoiceFilter{UserID: userID, Status: status})
}

// GetSummary aggregates the user's subscriptions and invoices: counts by
// status, lifetime spend, invoice counts, and the soonest renewal among
// active subscriptions.
func (s *Service) GetSummary(ctx context.Context, actor identity.Actor, userID string) (*Summary, error) {
	if !actor.Owns(userID) {
		return nil, ErrNotOwner
	}

	subs, err := s.store.List(ctx, ListFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List(ctx, InvoiceFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalSubscriptions: len(subs)}
	var spent float64
	for _, sub := range subs {
		spent += sub.Price
		switch sub.Status {
		case StatusActive:
			summary.ActiveSubscriptions++
			if summary.NextRenewal == nil || sub.RenewalDate.Before(*summary.NextRenewal) {
				renewal := sub.RenewalDate
				summary.NextRenewal = &renewal
			}
		case StatusCancelled:
			summary.CancelledSubscriptions++
		case StatusPaused:
			summary.PausedSubscriptions++
		}
	}
	summary.TotalSpent = math.Round(spent*100) / 100

	for _, inv := range invoices {
		switch inv.Status {
		case InvoicePending:
			summary.PendingInvoices++
		case InvoicePaid:
			summary.PaidInvoices++
		}
	}
	return summary, nil
}

// owned loads the subscription and enforces that the actor may operate on
// it: the owner or any admin.
func (s *Service) owned(ctx context.Context, actor identity.Actor, subscriptionID string) (*Subscription, error) {
	sub, err := s.store.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(sub.UserID) {
		return nil, ErrNotOwner
	}
	return sub, nil
}

type effect struct {
	name string
	fn   func(context.Context) error
}

// dispatch runs the side effects concurrently and awaits them all before
// returning. Failures are logged and dropped; the triggering operation has
// already been persisted and must not fail because of them.
func (s *Service) dispatch(ctx context.Context, subscriptionID string, effects ...effect) {
	futures := make([]*async.Future[struct{}], len(effects))
	for i, e := range effects {
		fn := e.fn
		futures[i] = async.Run(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, fn(ctx)
		})
	}
	for i, f := range futures {
		if _, err := f.Await(); err != nil {
			s.log.WarnContext(ctx, "side effect failed",
				logger.Event(effects[i].name), logger.SubscriptionID(subscriptionID), logger.Error(err))
		}
	}
}

func (s *Service) notifyEffect(userID, title, message string, typ notification.Type) effect {
	return effect{name: "notify_in_app", fn: func(ctx context.Context) error {
		_, err := s.notifier.NotifyInApp(ctx, userID, title, message, typ, nil)
		return err
	}}
}

func (s *Service) activationEmailEffect(sub *Subscription) effect {
	return effect{name: "activation_email", fn: func(ctx context.Context) error {
		u, err := s.users.Get(ctx, sub.UserID)
		if err != nil {
			return err
		}
		return s.notifier.SendSubscriptionActivationEmail(ctx,
			u.Email, u.FullName(), sub.PlanName, sub.Price, sub.Currency, sub.StartDate)
	}}
}

func (s *Service) cancellationEmailEffect(sub *Subscription) effect {
	return effect{name: "cancellation_email", fn: func(ctx context.Context) error {
		u, err := s.users.Get(ctx, sub.UserID)
		if err != nil {
			return err
		}
		return s.notifier.SendSubscriptionCancellationEmail(ctx, u.Email, u.FullName(), sub.PlanName)
	}}
}

func (s *Service) recordEffect(sub *Subscription, event string) effect {
	return effect{name: event, fn: func(ctx context.Context) error {
		return s.recorder.Record(ctx, sub.UserID, event, map[string]any{
			"planId":   sub.PlanID,
			"planName": sub.PlanName,
			"price":    sub.Price,
		})
	}}
}
