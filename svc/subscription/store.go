package subscription

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	appmongo "github.com/membercore/membership/pkg/mongo"
)

// ListFilter narrows subscription queries. Zero values match everything;
// Limit <= 0 returns every match, which cascade and summary paths rely on.
type ListFilter struct {
	UserID string
	Status Status
	PlanID string
	Limit  int64
}

// Store defines subscription persistence. Implementations return
// ErrSubscriptionNotFound for missing IDs.
type Store interface {
	Get(ctx context.Context, subscriptionID string) (*Subscription, error)
	List(ctx context.Context, filter ListFilter) ([]Subscription, error)
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
}

// InvoiceFilter narrows invoice queries. Zero values match everything;
// Limit <= 0 returns every match.
type InvoiceFilter struct {
	UserID         string
	SubscriptionID string
	Status         InvoiceStatus
	Limit          int64
}

// InvoiceStore defines invoice persistence. Implementations return
// ErrInvoiceNotFound for missing IDs.
type InvoiceStore interface {
	Get(ctx context.Context, invoiceID string) (*Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)
	Create(ctx context.Context, inv *Invoice) error
	Update(ctx context.Context, inv *Invoice) error
}

type mongoStore struct {
	col *mongo.Collection
}

// NewMongoStore returns a Store backed by the subscriptions collection.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{col: db.Collection(appmongo.CollectionSubscriptions)}
}

func (s *mongoStore) Get(ctx context.Context, subscriptionID string) (*Subscription, error) {
	var sub Subscription
	err := s.col.FindOne(ctx, bson.M{"_id": subscriptionID}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *mongoStore) List(ctx context.Context, filter ListFilter) ([]Subscription, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PlanID != "" {
		query["planId"] = filter.PlanID
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

	var subs []Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *mongoStore) Create(ctx context.Context, sub *Subscription) error {
	_, err := s.col.InsertOne(ctx, sub)
	return err
}

func (s *mongoStore) Update(ctx context.Context, sub *Subscription) error {
	sub.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": sub.ID}, sub)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

type mongoInvoiceStore struct {
	col *mongo.Collection
}

// NewMongoInvoiceStore returns an InvoiceStore backed by the invoices
// collection.
func NewMongoInvoiceStore(db *mongo.Database) InvoiceStore {
	return &mongoInvoiceStore{col: db.Collection(appmongo.CollectionInvoices)}
}

func (s *mongoInvoiceStore) Get(ctx context.Context, invoiceID string) (*Invoice, error) {
	var inv Invoice
	err := s.col.FindOne(ctx, bson.M{"_id": invoiceID}).Decode(&inv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (s *mongoInvoiceStore) List(ctx context.Context, filter InvoiceFilter) ([]Invoice, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.SubscriptionID != "" {
		query["subscriptionId"] = filter.SubscriptionID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
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

	var invoices []Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *mongoInvoiceStore) Create(ctx context.Context, inv *Invoice) error {
	_, err := s.col.InsertOne(ctx, inv)
	return err
}

func (s *mongoInvoiceStore) Update(ctx context.Context, inv *Invoice) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": inv.ID}, inv)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
