package admin_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membercore/membership/pkg/email"
	"github.com/membercore/membership/svc/admin"
	"github.com/membercore/membership/svc/analytics"
	"github.com/membercore/membership/svc/identity"
	"github.com/membercore/membership/svc/member"
	"github.com/membercore/membership/svc/notification"
	"github.com/membercore/membership/svc/plan"
	"github.com/membercore/membership/svc/subscription"
)

type capturingMailer struct {
	sent []email.SendEmailParams
}

func (m *capturingMailer) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	m.sent = append(m.sent, params)
	return nil
}

// flakyStorage fails Create for one configured user.
type flakyStorage struct {
	notification.Storage
	failFor string
}

func (s *flakyStorage) Create(ctx context.Context, n *notification.Notification) error {
	if n.UserID == s.failFor {
		return errors.New("storage unavailable")
	}
	return s.Storage.Create(ctx, n)
}

type harness struct {
	svc           *admin.Service
	users         *member.MemoryStore
	subs          *subscription.MemoryStore
	invoices      *subscription.MemoryInvoiceStore
	notifications *notification.MemoryStorage
	mailer        *capturingMailer
}

func newHarness(t *testing.T, failNotifyFor string) *harness {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	users := member.NewMemoryStore()
	users.Put(member.User{
		ID: "u1", Email: "alice@example.com", Name: "Alice", Surname: "Anderson",
		Role: "user", Status: member.StatusActive, CreatedAt: now, UpdatedAt: now,
	})

	plans := plan.NewMemoryStore()
	basic := plan.Plan{ID: "basic", Name: "Basic", Price: 9.99, Currency: "USD",
		BillingCycle: plan.CycleMonthly, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, plans.Create(ctx, &basic))

	subs := subscription.NewMemoryStore()
	invoices := subscription.NewMemoryInvoiceStore()
	notifStorage := notification.NewMemoryStorage()
	mailer := &capturingMailer{}

	var storage notification.Storage = notifStorage
	if failNotifyFor != "" {
		storage = &flakyStorage{Storage: notifStorage, failFor: failNotifyFor}
	}

	notifier := notification.NewService(storage, mailer, nil)
	analyticsSvc := analytics.NewService(analytics.NewMemoryStore(), subs, nil)

	svc := admin.NewService(
		member.NewService(users, nil),
		plan.NewService(plans, nil),
		subs, invoices, notifier, analyticsSvc, nil)

	return &harness{
		svc:           svc,
		users:         users,
		subs:          subs,
		invoices:      invoices,
		notifications: notifStorage,
		mailer:        mailer,
	}
}

func (h *harness) seedSubscription(t *testing.T, id, userID string, status subscription.Status) subscription.Subscription {
	t.Helper()
	now := time.Now().UTC()
	sub := subscription.Subscription{
		ID: id, UserID: userID, PlanID: "basic", PlanName: "Basic",
		Price: 9.99, Currency: "USD", BillingCycle: plan.CycleMonthly,
		Status: status, StartDate: now, EndDate: now.AddDate(0, 1, 0),
		RenewalDate: now.AddDate(0, 1, 0), AutoRenew: true,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, h.subs.Create(context.Background(), &sub))
	return sub
}

var (
	root  = identity.Actor{UserID: "root", Role: identity.RoleAdmin}
	plebe = identity.Actor{UserID: "u1", Role: identity.RoleUser}
)

func TestRequiresAdminRole(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	ctx := context.Background()

	_, err := h.svc.ListUsers(ctx, plebe, member.SearchFilter{})
	assert.ErrorIs(t, err, admin.ErrAdminRequired)

	_, err = h.svc.ListSubscriptions(ctx, plebe, subscription.ListFilter{})
	assert.ErrorIs(t, err, admin.ErrAdminRequired)

	err = h.svc.SuspendUser(ctx, plebe, "u1", "nope")
	assert.ErrorIs(t, err, admin.ErrAdminRequired)

	_, err = h.svc.SendBulkNotification(ctx, plebe, []string{"u1"}, "t", "m", notification.TypeInfo)
	assert.ErrorIs(t, err, admin.ErrAdminRequired)

	_, err = h.svc.Report(ctx, plebe)
	assert.ErrorIs(t, err, admin.ErrAdminRequired)
}

func TestUpdateSubscription(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	ctx := context.Background()
	sub := h.seedSubscription(t, "s1", "u1", subscription.StatusActive)

	notes := "comped for outage"
	newRenewal := sub.RenewalDate.AddDate(0, 1, 0)
	updated, err := h.svc.UpdateSubscription(ctx, root, "s1", admin.SubscriptionPatch{
		Notes:       &notes,
		RenewalDate: &newRenewal,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	assert.Equal(t, newRenewal, updated.RenewalDate)
	// Untouched fields keep their values.
	assert.True(t, updated.AutoRenew)
	assert.Equal(t, sub.EndDate, updated.EndDate)
}

func TestPauseSubscription(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	ctx := context.Background()
	h.seedSubscription(t, "s1", "u1", subscription.StatusActive)

	paused, err := h.svc.PauseSubscription(ctx, root, "s1", "billing dispute")
	require.NoError(t, err)

	assert.Equal(t, subscription.StatusPaused, paused.Status)
	require.NotNil(t, paused.Notes)
	assert.Equal(t, "Paused by admin: billing dispute", *paused.Notes)

	notifs, err := h.notifications.List(ctx, "u1", notification.ListOptions{})
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Subscription Paused", notifs[0].Title)
	assert.Equal(t, notification.TypeWarning, notifs[0].Type)
	assert.Contains(t, notifs[0].Message, "billing dispute")
}

func TestResumeSubscription(t *testing.T) {
	t.Parallel()

	t.Run("requires paused", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, "")
		h.seedSubscription(t, "s1", "u1", subscription.StatusActive)

		_, err := h.svc.ResumeSubscription(context.Background(), root, "s1")
		assert.ErrorIs(t, err, subscription.ErrNotPaused)
	})

	t.Run("reactivates", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, "")
		ctx := context.Background()
		h.seedSubscription(t, "s1", "u1", subscription.StatusPaused)

		resumed, err := h.svc.ResumeSubscription(ctx, root, "s1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive, resumed.Status)
	})
}

func TestCancelSubscription(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	ctx := context.Background()
	h.seedSubscription(t, "s1", "u1", subscription.StatusActive)

	cancelled, err := h.svc.CancelSubscription(ctx, root, "s1", "chargeback")
	require.NoError(t, err)

	assert.Equal(t, subscription.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "chargeback", *cancelled.CancelReason)

	notifs, err := h.notifications.List(ctx, "u1", notification.ListOptions{})
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, notification.TypeError, notifs[0].Type)

	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "Basic Subscription Cancelled", h.mailer.sent[0].Subject)
}

func TestSuspendUser(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	ctx := context.Background()
	h.seedSubscription(t, "s1", "u1", subscription.StatusActive)
	h.seedSubscription(t, "s2", "u1", subscription.StatusPaused)

	require.NoError(t, h.svc.SuspendUser(ctx, root, "u1", "fraudulent activity"))

	u, err := h.users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, member.StatusSuspended, u.Status)

	subs, err := h.subs.List(ctx, subscription.ListFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	for _, sub := range subs {
		assert.Equal(t, subscription.StatusCancelled, sub.Status)
		require.NotNil(t, sub.CancelReason)
		assert.Equal(t, "Account suspended: fraudulent activity", *sub.CancelReason)
	}

	notifs, err := h.notifications.List(ctx, "u1", notification.ListOptions{})
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Account Suspended", notifs[0].Title)
	assert.Equal(t, notification.TypeError, notifs[0].Type)

	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "Account Suspended", h.mailer.sent[0].Subject)
	assert.Contains(t, h.mailer.sent[0].BodyHTML, "fraudulent activity")
}

func TestSuspendUserCancelsEverySubscription(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	ctx := context.Background()

	// Well past any single page of results.
	for i := 0; i < 120; i++ {
		h.seedSubscription(t, fmt.Sprintf("s%03d", i), "u1", subscription.StatusActive)
	}

	require.NoError(t, h.svc.SuspendUser(ctx, root, "u1", "chargeback abuse"))

	subs, err := h.subs.List(ctx, subscription.ListFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, subs, 120)
	for _, sub := range subs {
		assert.Equal(t, subscription.StatusCancelled, sub.Status)
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	ctx := context.Background()
	h.seedSubscription(t, "s1", "u1", subscription.StatusActive)

	require.NoError(t, h.svc.DeleteUser(ctx, root, "u1"))

	_, err := h.users.Get(ctx, "u1")
	assert.ErrorIs(t, err, member.ErrUserNotFound)

	subs, err := h.subs.List(ctx, subscription.ListFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, subscription.StatusCancelled, subs[0].Status)

	assert.ErrorIs(t, h.svc.DeleteUser(ctx, root, "u1"), member.ErrUserNotFound)
}

func TestSendBulkNotification(t *testing.T) {
	t.Parallel()

	t.Run("one failure never aborts the rest", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, "u2")
		ctx := context.Background()

		result, err := h.svc.SendBulkNotification(ctx, root,
			[]string{"u1", "u2", "u3"}, "Maintenance", "Scheduled downtime tonight.", notification.TypeInfo)
		require.NoError(t, err)

		assert.Equal(t, 2, result.TotalSent)
		assert.Equal(t, []string{"u2"}, result.Failed)

		for _, userID := range []string{"u1", "u3"} {
			notifs, err := h.notifications.List(ctx, userID, notification.ListOptions{})
			require.NoError(t, err)
			assert.Len(t, notifs, 1)
		}
	})

	t.Run("empty recipient list rejected", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, "")
		_, err := h.svc.SendBulkNotification(context.Background(), root, nil, "t", "m", notification.TypeInfo)
		assert.ErrorIs(t, err, admin.ErrNoRecipients)
	})
}

func TestSendNotification(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	ctx := context.Background()

	assert.ErrorIs(t,
		h.svc.SendNotification(ctx, root, "ghost", "Hello", "msg", notification.TypeInfo),
		member.ErrUserNotFound)

	require.NoError(t, h.svc.SendNotification(ctx, root, "u1", "Hello", "msg", notification.TypeInfo))

	notifs, err := h.notifications.List(ctx, "u1", notification.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, notifs, 1)
}

func TestUpdateInvoiceStatus(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	ctx := context.Background()

	require.NoError(t, h.invoices.Create(ctx, &subscription.Invoice{
		ID: "inv1", UserID: "u1", SubscriptionID: "s1", Amount: 9.99, Currency: "USD",
		Status: subscription.InvoicePending, CreatedAt: time.Now().UTC(),
	}))

	paid, err := h.svc.UpdateInvoiceStatus(ctx, root, "inv1", subscription.InvoicePaid)
	require.NoError(t, err)
	assert.Equal(t, subscription.InvoicePaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	_, err = h.svc.UpdateInvoiceStatus(ctx, root, "inv1", subscription.InvoiceStatus("overdue"))
	assert.ErrorIs(t, err, subscription.ErrInvalidInvoiceStatus)
}
