package member

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

// Put inserts or replaces a user. Test seeding helper, not part of Store.
func (s *MemoryStore) Put(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := u
	return &copied, nil
}

func (s *MemoryStore) List(ctx context.Context, filter ListFilter) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(filter.Search)
	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(u.Email), term) &&
			!strings.Contains(strings.ToLower(u.Name), term) &&
			!strings.Contains(strings.ToLower(u.Surname), term) {
			continue
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })

	if filter.Limit > 0 && int64(len(users)) > filter.Limit {
		users = users[:filter.Limit]
	}
	return users, nil
}

func (s *MemoryStore) Update(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, userID)
	return nil
}
