package notification

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorage is an in-memory Storage for tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]Notification
}

// NewMemoryStorage returns an empty in-memory Storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]Notification)}
}

func (s *MemoryStorage) Create(ctx context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[n.ID] = *n
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, userID, notificationID string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.items[notificationID]
	if !ok || n.UserID != userID {
		return nil, ErrNotificationNotFound
	}
	copied := n
	return &copied, nil
}

func (s *MemoryStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Notification, 0, len(s.items))
	for _, n := range s.items {
		if n.UserID != userID {
			continue
		}
		if opts.OnlyUnread && n.Read {
			continue
		}
		items = append(items, n)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if int64(len(items)) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, userID string, notificationIDs ...string) error {
	if len(notificationIDs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := false
	for _, id := range notificationIDs {
		n, ok := s.items[id]
		if !ok || n.UserID != userID || n.Read {
			continue
		}
		n.MarkAsRead()
		s.items[id] = n
		matched = true
	}
	if !matched {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *MemoryStorage) MarkAllRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.items {
		if n.UserID != userID || n.Read {
			continue
		}
		n.MarkAsRead()
		s.items[id] = n
	}
	return nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, n := range s.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}
