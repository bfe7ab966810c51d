package notification

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	appmongo "github.com/membercore/membership/pkg/mongo"
)

// ListOptions narrows and pages a user's notification feed.
type ListOptions struct {
	OnlyUnread bool
	Limit      int64
}

// Storage persists in-app notifications. Implementations return
// ErrNotificationNotFound for missing IDs.
type Storage interface {
	Create(ctx context.Context, n *Notification) error
	Get(ctx context.Context, userID, notificationID string) (*Notification, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, notificationIDs ...string) error
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

const defaultListLimit = 50

type mongoStorage struct {
	col *mongo.Collection
}

// NewMongoStorage returns a Storage backed by the notifications collection.
func NewMongoStorage(db *mongo.Database) Storage {
	return &mongoStorage{col: db.Collection(appmongo.CollectionNotifications)}
}

func (s *mongoStorage) Create(ctx context.Context, n *Notification) error {
	_, err := s.col.InsertOne(ctx, n)
	return err
}

func (s *mongoStorage) Get(ctx context.Context, userID, notificationID string) (*Notification, error) {
	var n Notification
	err := s.col.FindOne(ctx, bson.M{"_id": notificationID, "userId": userID}).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (s *mongoStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	filter := bson.M{"userId": userID}
	if opts.OnlyUnread {
		filter["read"] = false
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	cursor, err := s.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []Notification
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *mongoStorage) MarkRead(ctx context.Context, userID string, notificationIDs ...string) error {
	if len(notificationIDs) == 0 {
		return nil
	}

	res, err := s.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": notificationIDs}, "userId": userID, "read": false},
		readUpdate())
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *mongoStorage) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.col.UpdateMany(ctx, bson.M{"userId": userID, "read": false}, readUpdate())
	return err
}

func (s *mongoStorage) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"userId": userID, "read": false})
}

func readUpdate() bson.M {
	return bson.M{"$set": bson.M{"read": true, "readAt": time.Now().UTC()}}
}
