package member

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	appmongo "github.com/membercore/membership/pkg/mongo"
)

// ListFilter narrows List results. Zero values mean "no constraint";
// Limit <= 0 returns every match. Search matches email, name, or surname
// case-insensitively.
type ListFilter struct {
	Role   string
	Status Status
	Search string
	Limit  int64
}

// Store defines user persistence.
type Store interface {
	Get(ctx context.Context, userID string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, userID string) error
}

type mongoStore struct {
	col *mongo.Collection
}

// NewMongoStore returns a Store backed by the users collection.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{col: db.Collection(appmongo.CollectionUsers)}
}

func (s *mongoStore) Get(ctx context.Context, userID string) (*User, error) {
	var u User
	err := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *mongoStore) List(ctx context.Context, filter ListFilter) ([]User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Search != "" {
		term := bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
		query["$or"] = []bson.M{{"email": term}, {"name": term}, {"surname": term}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *mongoStore) Update(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, userID string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
