package plan

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/membercore/membership/pkg/logger"
)

// Service manages the plan catalog. Write operations are reachable only
// from the admin surface; reads serve both user and admin traffic.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService creates the catalog service. Panics on a nil store so a
// miswired process fails at startup.
func NewService(store Store, log *slog.Logger) *Service {
	if store == nil {
		panic("plan: Store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// CreateParams are the fields accepted when creating a plan.
type CreateParams struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	Currency     string       `json:"currency"`
	BillingCycle BillingCycle `json:"billingCycle"`
	Features     []string     `json:"features"`
	MaxUsers     *int         `json:"maxUsers,omitempty"`
}

// Create validates and persists a new active plan.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Plan, error) {
	if params.Name == "" {
		return nil, ErrNameRequired
	}
	if params.Price < 0 {
		return nil, ErrNegativePrice
	}
	if params.Currency == "" {
		return nil, ErrCurrencyRequired
	}
	if !params.BillingCycle.Valid() {
		return nil, ErrInvalidCycle
	}

	now := time.Now().UTC()
	p := &Plan{
		ID:           uuid.New().String(),
		Name:         params.Name,
		Description:  params.Description,
		Price:        params.Price,
		Currency:     params.Currency,
		BillingCycle: params.BillingCycle,
		Features:     params.Features,
		MaxUsers:     params.MaxUsers,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.Features == nil {
		p.Features = []string{}
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "plan created", logger.PlanID(p.ID), slog.String("name", p.Name))
	return p, nil
}

// UpdateParams are the editable plan fields. Nil pointers leave the field
// unchanged.
type UpdateParams struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
	Features    []string `json:"features,omitempty"`
	MaxUsers    *int     `json:"maxUsers,omitempty"`
}

// Update applies the given edits. Price edits never propagate to existing
// subscriptions, which keep their snapshot.
func (s *Service) Update(ctx context.Context, planID string, params UpdateParams) (*Plan, error) {
	if params.Price != nil && *params.Price < 0 {
		return nil, ErrNegativePrice
	}

	p, err := s.store.Get(ctx, planID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.Price != nil {
		p.Price = *params.Price
	}
	if params.Currency != nil {
		p.Currency = *params.Currency
	}
	if params.Features != nil {
		p.Features = params.Features
	}
	if params.MaxUsers != nil {
		p.MaxUsers = params.MaxUsers
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "plan updated", logger.PlanID(p.ID))
	return p, nil
}

// Deactivate soft-deletes the plan: it disappears from the public listing
// but stays resolvable for existing subscriptions.
func (s *Service) Deactivate(ctx context.Context, planID string) error {
	p, err := s.store.Get(ctx, planID)
	if err != nil {
		return err
	}

	p.IsActive = false
	if err := s.store.Update(ctx, p); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "plan deactivated", logger.PlanID(planID))
	return nil
}

// Get returns a plan by ID regardless of its active flag.
func (s *Service) Get(ctx context.Context, planID string) (*Plan, error) {
	return s.store.Get(ctx, planID)
}

// ListActive returns purchasable plans sorted by price.
func (s *Service) ListActive(ctx context.Context) ([]Plan, error) {
	return s.store.List(ctx, true)
}

// ListAll returns every plan including deactivated ones.
func (s *Service) ListAll(ctx context.Context) ([]Plan, error) {
	return s.store.List(ctx, false)
}
