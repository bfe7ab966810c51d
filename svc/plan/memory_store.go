package plan

import (
	"context"
	"sort"
	"sync"
)

// memoryStore is an in-memory Store used in tests and local development
// without a MongoDB instance.
type memoryStore struct {
	mu    sync.RWMutex
	plans map[string]Plan
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{plans: make(map[string]Plan)}
}

func (s *memoryStore) Get(ctx context.Context, planID string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[planID]
	if !ok {
		return nil, ErrPlanNotFound
	}
	copied := p
	return &copied, nil
}

func (s *memoryStore) List(ctx context.Context, activeOnly bool) ([]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := make([]Plan, 0, len(s.plans))
	for _, p := range s.plans {
		if activeOnly && !p.IsActive {
			continue
		}
		plans = append(plans, p)
	}

	sort.Slice(plans, func(i, j int) bool { return plans[i].Price < plans[j].Price })
	return plans, nil
}

func (s *memoryStore) Create(ctx context.Context, p *Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plans[p.ID] = *p
	return nil
}

func (s *memoryStore) Update(ctx context.Context, p *Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[p.ID]; !ok {
		return ErrPlanNotFound
	}
	s.plans[p.ID] = *p
	return nil
}

func (s *memoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.plans)), nil
}
