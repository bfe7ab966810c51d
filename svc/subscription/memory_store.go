package subscription

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string]Subscription)}
}

func (s *MemoryStore) Get(ctx context.Context, subscriptionID string) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[subscriptionID]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	copied := sub
	return &copied, nil
}

func (s *MemoryStore) List(ctx context.Context, filter ListFilter) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		if filter.UserID != "" && sub.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && sub.Status != filter.Status {
			continue
		}
		if filter.PlanID != "" && sub.PlanID != filter.PlanID {
			continue
		}
		subs = append(subs, sub)
	}

	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.After(subs[j].CreatedAt) })

	if filter.Limit > 0 && int64(len(subs)) > filter.Limit {
		subs = subs[:filter.Limit]
	}
	return subs, nil
}

func (s *MemoryStore) Create(ctx context.Context, sub *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = *sub
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, sub *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub.ID]; !ok {
		return ErrSubscriptionNotFound
	}
	s.subs[sub.ID] = *sub
	return nil
}

// MemoryInvoiceStore is an in-memory InvoiceStore for tests.
type MemoryInvoiceStore struct {
	mu       sync.RWMutex
	invoices map[string]Invoice
}

// NewMemoryInvoiceStore returns an empty in-memory InvoiceStore.
func NewMemoryInvoiceStore() *MemoryInvoiceStore {
	return &MemoryInvoiceStore{invoices: make(map[string]Invoice)}
}

func (s *MemoryInvoiceStore) Get(ctx context.Context, invoiceID string) (*Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	copied := inv
	return &copied, nil
}

func (s *MemoryInvoiceStore) List(ctx context.Context, filter InvoiceFilter) ([]Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoices := make([]Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		if filter.UserID != "" && inv.UserID != filter.UserID {
			continue
		}
		if filter.SubscriptionID != "" && inv.SubscriptionID != filter.SubscriptionID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		invoices = append(invoices, inv)
	}

	sort.Slice(invoices, func(i, j int) bool { return invoices[i].CreatedAt.After(invoices[j].CreatedAt) })

	if filter.Limit > 0 && int64(len(invoices)) > filter.Limit {
		invoices = invoices[:filter.Limit]
	}
	return invoices, nil
}

func (s *MemoryInvoiceStore) Create(ctx context.Context, inv *Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = *inv
	return nil
}

func (s *MemoryInvoiceStore) Update(ctx context.Context, inv *Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[inv.ID]; !ok {
		return ErrInvoiceNotFound
	}
	s.invoices[inv.ID] = *inv
	return nil
}
