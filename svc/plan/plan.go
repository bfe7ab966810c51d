// Package plan implements the subscription plan catalog: the registry of
// purchasable plans with soft deactivation. Plans referenced by existing
// subscriptions are never deleted, only switched inactive.
package plan

import (
	"time"
)

// BillingCycle is the recurring period unit of a plan.
type BillingCycle string

const (
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
)

// Valid reports whether the cycle is one of the supported values.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleMonthly, CycleQuarterly, CycleYearly:
		return true
	}
	return false
}

// AddTo returns t advanced by one billing period using calendar-aware date
// addition. Overflow follows Go's time.Time.AddDate normalization: Jan 31
// plus one month lands on Mar 2/3, the same rule the platform applies
// everywhere dates are computed.
func (c BillingCycle) AddTo(t time.Time) time.Time {
	switch c {
	case CycleQuarterly:
		return t.AddDate(0, 3, 0)
	case CycleYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// Plan describes a purchasable subscription plan. Price and features may be
// edited after creation; the billing invariants of existing subscriptions
// are unaffected because subscriptions snapshot plan fields at purchase.
type Plan struct {
	ID           string       `json:"id" bson:"_id"`
	Name         string       `json:"name" bson:"name"`
	Description  string       `json:"description" bson:"description"`
	Price        float64      `json:"price" bson:"price"`
	Currency     string       `json:"currency" bson:"currency"`
	BillingCycle BillingCycle `json:"billingCycle" bson:"billingCycle"`
	Features     []string     `json:"features" bson:"features"`
	MaxUsers     *int         `json:"maxUsers,omitempty" bson:"maxUsers,omitempty"`
	IsActive     bool         `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt" bson:"updatedAt"`
}
