// Package subscription implements the membership lifecycle engine: creating
// subscriptions against the plan catalog, billing-period arithmetic, status
// transitions, and the side effects (in-app notification, email, analytics
// event) each transition triggers.
package subscription

import (
	"time"

	"github.com/membercore/membership/svc/plan"
)

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusPaused, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Subscription is one user's membership on a plan. Plan name, price,
// currency, and billing cycle are snapshotted at creation so later catalog
// edits never change what an existing subscriber pays.
type Subscription struct {
	ID           string            `json:"id" bson:"_id"`
	UserID       string            `json:"userId" bson:"userId"`
	PlanID       string            `json:"planId" bson:"planId"`
	PlanName     string            `json:"planName" bson:"planName"`
	Price        float64           `json:"price" bson:"price"`
	Currency     string            `json:"currency" bson:"currency"`
	BillingCycle plan.BillingCycle `json:"billingCycle" bson:"billingCycle"`
	Status       Status            `json:"status" bson:"status"`
	StartDate    time.Time         `json:"startDate" bson:"startDate"`
	EndDate      time.Time         `json:"endDate" bson:"endDate"`
	RenewalDate  time.Time         `json:"renewalDate" bson:"renewalDate"`
	AutoRenew    bool              `json:"autoRenew" bson:"autoRenew"`
	Notes        *string           `json:"notes,omitempty" bson:"notes,omitempty"`
	CancelledAt  *time.Time        `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CancelReason *string           `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	CreatedAt    time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// IsActive reports whether the subscription currently grants access.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// anchorPeriod stamps the billing period starting at the given instant:
// endDate one cycle out, renewalDate equal to endDate. Month arithmetic
// follows Go's AddDate normalization, so Jan 31 + 1 month lands on Mar 3
// (Mar 2 in leap years).
func (s *Subscription) anchorPeriod(now time.Time) {
	s.StartDate = now
	s.EndDate = s.BillingCycle.AddTo(now)
	s.RenewalDate = s.EndDate
}

// Summary aggregates one user's subscription and invoice portfolio.
type Summary struct {
	TotalSubscriptions     int        `json:"totalSubscriptions"`
	ActiveSubscriptions    int        `json:"activeSubscriptions"`
	CancelledSubscriptions int        `json:"cancelledSubscriptions"`
	PausedSubscriptions    int        `json:"pausedSubscriptions"`
	TotalSpent             float64    `json:"totalSpent"`
	PendingInvoices        int        `json:"pendingInvoices"`
	PaidInvoices           int        `json:"paidInvoices"`
	NextRenewal            *time.Time `json:"nextRenewal,omitempty"`
}

// Details is a subscription joined with its plan and invoices.
type Details struct {
	Subscription Subscription `json:"subscription"`
	Plan         *plan.Plan   `json:"plan,omitempty"`
	Invoices     []Invoice    `json:"invoices"`
}
