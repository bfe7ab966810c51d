package plan

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	appmongo "github.com/membercore/membership/pkg/mongo"
)

// Store defines plan persistence. Implementations return ErrPlanNotFound
// for missing IDs.
type Store interface {
	Get(ctx context.Context, planID string) (*Plan, error)
	List(ctx context.Context, activeOnly bool) ([]Plan, error)
	Create(ctx context.Context, p *Plan) error
	Update(ctx context.Context, p *Plan) error
	Count(ctx context.Context) (int64, error)
}

type mongoStore struct {
	col *mongo.Collection
}

// NewMongoStore returns a Store backed by the subscriptionPlans collection.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{col: db.Collection(appmongo.CollectionPlans)}
}

func (s *mongoStore) Get(ctx context.Context, planID string) (*Plan, error) {
	var p Plan
	err := s.col.FindOne(ctx, bson.M{"_id": planID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *mongoStore) List(ctx context.Context, activeOnly bool) ([]Plan, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	cursor, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []Plan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *mongoStore) Create(ctx context.Context, p *Plan) error {
	_, err := s.col.InsertOne(ctx, p)
	return err
}

func (s *mongoStore) Update(ctx context.Context, p *Plan) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (s *mongoStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
