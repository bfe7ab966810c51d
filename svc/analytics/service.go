package analytics

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/membercore/membership/pkg/logger"
	"github.com/membercore/membership/svc/plan"
	"github.com/membercore/membership/svc/subscription"
)

// SubscriptionSource supplies subscription rows for report aggregation.
// Satisfied by the subscription store.
type SubscriptionSource interface {
	List(ctx context.Context, filter subscription.ListFilter) ([]subscription.Subscription, error)
}

// reportScanLimit bounds how many subscriptions a report aggregates over.
const reportScanLimit = 100000

// Service records events and builds reports.
type Service struct {
	store Store
	subs  SubscriptionSource
	log   *slog.Logger
}

// NewService creates the analytics service. Panics on a nil store or
// subscription source.
func NewService(store Store, subs SubscriptionSource, log *slog.Logger) *Service {
	if store == nil {
		panic("analytics: Store is required")
	}
	if subs == nil {
		panic("analytics: SubscriptionSource is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, subs: subs, log: log}
}

// Record appends an event for the user. A nil metadata map is stored as
// empty.
func (s *Service) Record(ctx context.Context, userID, event string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}

	e := &Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Event:     event,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}
	if err := s.store.Append(ctx, e); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "event recorded", logger.Event(event), logger.UserID(userID))
	return nil
}

// RecentActivity returns the user's latest events, newest first.
func (s *Service) RecentActivity(ctx context.Context, userID string, limit int64) ([]Event, error) {
	return s.store.ListByUser(ctx, userID, limit)
}

// PlanRevenue aggregates revenue for one plan by its snapshotted name.
type PlanRevenue struct {
	Count   int     `json:"count"`
	Active  int     `json:"active"`
	Revenue float64 `json:"revenue"`
}

// Report is a point-in-time aggregation over all subscriptions.
type Report struct {
	TotalSubscriptions      int                           `json:"totalSubscriptions"`
	ByStatus                map[subscription.Status]int   `json:"byStatus"`
	ByBillingCycle          map[plan.BillingCycle]int     `json:"byBillingCycle"`
	RevenueByBillingCycle   map[plan.BillingCycle]float64 `json:"revenueByBillingCycle"`
	RevenueByPlan           map[string]PlanRevenue        `json:"revenueByPlan"`
	TotalRevenue            float64                       `json:"totalRevenue"`
	MonthlyRecurringRevenue float64                       `json:"monthlyRecurringRevenue"`
}

// BuildReport aggregates every subscription into totals by status, billing
// cycle, and plan. Cycle revenue counts active subscriptions only, scaled to
// a yearly-comparable figure (quarterly x3, yearly x12); the MRR
// approximation divides those back down to a monthly equivalent.
func (s *Service) BuildReport(ctx context.Context) (*Report, error) {
	subs, err := s.subs.List(ctx, subscription.ListFilter{Limit: reportScanLimit})
	if err != nil {
		return nil, err
	}

	report := &Report{
		TotalSubscriptions:    len(subs),
		ByStatus:              make(map[subscription.Status]int),
		ByBillingCycle:        make(map[plan.BillingCycle]int),
		RevenueByBillingCycle: make(map[plan.BillingCycle]float64),
		RevenueByPlan:         make(map[string]PlanRevenue),
	}

	for _, sub := range subs {
		report.ByStatus[sub.Status]++
		report.ByBillingCycle[sub.BillingCycle]++
		report.TotalRevenue += sub.Price

		pr := report.RevenueByPlan[sub.PlanName]
		pr.Count++
		pr.Revenue = round2(pr.Revenue + sub.Price)
		if sub.Status == subscription.StatusActive {
			pr.Active++
			report.RevenueByBillingCycle[sub.BillingCycle] += sub.Price * cycleMultiplier(sub.BillingCycle)
		}
		report.RevenueByPlan[sub.PlanName] = pr
	}

	report.TotalRevenue = round2(report.TotalRevenue)
	report.MonthlyRecurringRevenue = round2(
		report.RevenueByBillingCycle[plan.CycleMonthly] +
			round2(report.RevenueByBillingCycle[plan.CycleQuarterly]/3) +
			round2(report.RevenueByBillingCycle[plan.CycleYearly]/12))
	return report, nil
}

func cycleMultiplier(c plan.BillingCycle) float64 {
	switch c {
	case plan.CycleQuarterly:
		return 3
	case plan.CycleYearly:
		return 12
	default:
		return 1
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
