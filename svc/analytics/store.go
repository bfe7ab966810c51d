package analytics

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	appmongo "github.com/membercore/membership/pkg/mongo"
)

// Store persists analytics events.
type Store interface {
	Append(ctx context.Context, event *Event) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]Event, error)
}

const defaultEventLimit = 100

type mongoStore struct {
	col *mongo.Collection
}

// NewMongoStore returns a Store backed by the analytics collection.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{col: db.Collection(appmongo.CollectionAnalytics)}
}

func (s *mongoStore) Append(ctx context.Context, event *Event) error {
	_, err := s.col.InsertOne(ctx, event)
	return err
}

func (s *mongoStore) ListByUser(ctx context.Context, userID string, limit int64) ([]Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}

	cursor, err := s.col.Find(ctx, bson.M{"userId": userID}, options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string, limit int64) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = defaultEventLimit
	}

	var events []Event
	for _, e := range s.events {
		if e.UserID == userID {
			events = append(events, e)
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Timestamp.After(events[j].Timestamp) })

	if int64(len(events)) > limit {
		events = events[:limit]
	}
	return events, nil
}
