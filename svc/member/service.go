package member

import (
	"context"
	"log/slog"
	"time"

	"github.com/membercore/membership/pkg/logger"
)

// Service exposes user record operations. Suspension and deletion are
// reachable only through the admin surface, which also cascades to the
// user's subscriptions.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService creates the member service. Panics on a nil store.
func NewService(store Store, log *slog.Logger) *Service {
	if store == nil {
		panic("member: Store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// Get returns a user by ID.
func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	return s.store.Get(ctx, userID)
}

// SearchFilter narrows List results; Search matches email, name, or surname
// case-insensitively. The store applies the search so a match is never lost
// to pagination.
type SearchFilter struct {
	Role   string
	Status Status
	Search string
	Limit  int64
}

// List returns users matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter SearchFilter) ([]User, error) {
	return s.store.List(ctx, ListFilter{
		Role:   filter.Role,
		Status: filter.Status,
		Search: filter.Search,
		Limit:  filter.Limit,
	})
}

// UpdateParams enumerates the fields an admin may patch on a user record.
// Nil pointers leave the field unchanged.
type UpdateParams struct {
	Name        *string    `json:"name,omitempty"`
	Surname     *string    `json:"surname,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	City        *string    `json:"city,omitempty"`
	Country     *string    `json:"country,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
}

// Update applies the patch and returns the updated record.
func (s *Service) Update(ctx context.Context, userID string, params UpdateParams) (*User, error) {
	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		u.Name = *params.Name
	}
	if params.Surname != nil {
		u.Surname = *params.Surname
	}
	if params.Status != nil {
		u.Status = *params.Status
	}
	if params.Phone != nil {
		u.Phone = params.Phone
	}
	if params.Address != nil {
		u.Address = params.Address
	}
	if params.City != nil {
		u.City = params.City
	}
	if params.Country != nil {
		u.Country = params.Country
	}
	if params.DateOfBirth != nil {
		u.DateOfBirth = params.DateOfBirth
	}
	if params.Gender != nil {
		u.Gender = params.Gender
	}

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user updated", logger.UserID(userID))
	return u, nil
}

// Suspend marks the user suspended. The caller is responsible for
// cascading to the user's subscriptions.
func (s *Service) Suspend(ctx context.Context, userID string) (*User, error) {
	suspended := StatusSuspended
	return s.Update(ctx, userID, UpdateParams{Status: &suspended})
}

// Delete removes the user record.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user deleted", logger.UserID(userID))
	return nil
}
