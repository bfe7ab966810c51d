package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membercore/membership/svc/analytics"
	"github.com/membercore/membership/svc/plan"
	"github.com/membercore/membership/svc/subscription"
)

func TestRecord(t *testing.T) {
	t.Parallel()

	store := analytics.NewMemoryStore()
	svc := analytics.NewService(store, subscription.NewMemoryStore(), nil)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "u1", "subscription_created", map[string]any{"planId": "pro"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, svc.Record(ctx, "u1", "subscription_cancelled", nil))
	require.NoError(t, svc.Record(ctx, "u2", "subscription_created", nil))

	events, err := svc.RecentActivity(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "subscription_cancelled", events[0].Event)
	assert.Equal(t, "subscription_created", events[1].Event)
	assert.Equal(t, map[string]any{"planId": "pro"}, events[1].Metadata)
	assert.NotNil(t, events[0].Metadata)
	assert.NotEmpty(t, events[0].ID)
}

func TestBuildReport(t *testing.T) {
	t.Parallel()

	subs := subscription.NewMemoryStore()
	ctx := context.Background()

	seed := []subscription.Subscription{
		{ID: "s1", UserID: "u1", PlanName: "Basic", Price: 10, BillingCycle: plan.CycleMonthly, Status: subscription.StatusActive},
		{ID: "s2", UserID: "u2", PlanName: "Basic", Price: 10, BillingCycle: plan.CycleMonthly, Status: subscription.StatusCancelled},
		{ID: "s3", UserID: "u3", PlanName: "Pro", Price: 25, BillingCycle: plan.CycleQuarterly, Status: subscription.StatusActive},
		{ID: "s4", UserID: "u4", PlanName: "Enterprise", Price: 99, BillingCycle: plan.CycleYearly, Status: subscription.StatusActive},
		{ID: "s5", UserID: "u5", PlanName: "Pro", Price: 25, BillingCycle: plan.CycleQuarterly, Status: subscription.StatusPaused},
	}
	for i := range seed {
		require.NoError(t, subs.Create(ctx, &seed[i]))
	}

	svc := analytics.NewService(analytics.NewMemoryStore(), subs, nil)

	report, err := svc.BuildReport(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalSubscriptions)
	assert.Equal(t, 3, report.ByStatus[subscription.StatusActive])
	assert.Equal(t, 1, report.ByStatus[subscription.StatusCancelled])
	assert.Equal(t, 1, report.ByStatus[subscription.StatusPaused])

	assert.Equal(t, 2, report.ByBillingCycle[plan.CycleMonthly])
	assert.Equal(t, 2, report.ByBillingCycle[plan.CycleQuarterly])
	assert.Equal(t, 1, report.ByBillingCycle[plan.CycleYearly])

	// Active-only, scaled per cycle: 10, 25x3, 99x12.
	assert.InDelta(t, 10, report.RevenueByBillingCycle[plan.CycleMonthly], 0.001)
	assert.InDelta(t, 75, report.RevenueByBillingCycle[plan.CycleQuarterly], 0.001)
	assert.InDelta(t, 1188, report.RevenueByBillingCycle[plan.CycleYearly], 0.001)

	// MRR folds everything back to monthly: 10 + 25 + 99.
	assert.InDelta(t, 134, report.MonthlyRecurringRevenue, 0.001)

	assert.InDelta(t, 169, report.TotalRevenue, 0.001)

	basic := report.RevenueByPlan["Basic"]
	assert.Equal(t, 2, basic.Count)
	assert.Equal(t, 1, basic.Active)
	assert.InDelta(t, 20, basic.Revenue, 0.001)

	pro := report.RevenueByPlan["Pro"]
	assert.Equal(t, 2, pro.Count)
	assert.Equal(t, 1, pro.Active)
	assert.InDelta(t, 50, pro.Revenue, 0.001)
}
