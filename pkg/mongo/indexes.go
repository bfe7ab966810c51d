package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Collection names used across the service. Repositories must reference
// these constants instead of string literals so the index bootstrap below
// stays in sync with actual usage.
const (
	CollectionUsers         = "users"
	CollectionPlans         = "subscriptionPlans"
	CollectionSubscriptions = "subscriptions"
	CollectionInvoices      = "invoices"
	CollectionNotifications = "notifications"
	CollectionAnalytics     = "analytics"
)

// EnsureIndexes creates the indexes the repositories query by. Safe to call
// on every startup; CreateMany is a no-op for indexes that already exist.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}}},
		},
		CollectionPlans: {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "price", Value: 1}}},
		},
		CollectionSubscriptions: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "planId", Value: 1}}},
		},
		CollectionInvoices: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		CollectionNotifications: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "read", Value: 1}}},
		},
		CollectionAnalytics: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "event", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes for %s: %w", name, err)
		}
	}
	return nil
}
