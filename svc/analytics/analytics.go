// Package analytics records lifecycle events into the analytics collection
// and aggregates subscription data into an operational report.
package analytics

import "time"

// Event is a single recorded lifecycle event.
type Event struct {
	ID        string         `json:"id" bson:"_id"`
	UserID    string         `json:"userId" bson:"userId"`
	Event     string         `json:"event" bson:"event"`
	Metadata  map[string]any `json:"metadata" bson:"metadata"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
}
