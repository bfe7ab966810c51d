// Package notification delivers in-app notifications and transactional
// emails. In-app notifications are persisted per user; emails are rendered
// from built-in templates and handed to the configured mailer.
package notification

import "time"

// Type is the severity of an in-app notification.
type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

// Valid reports whether the type is one of the known severities.
func (t Type) Valid() bool {
	switch t {
	case TypeInfo, TypeWarning, TypeSuccess, TypeError:
		return true
	}
	return false
}

// Notification is a single in-app notification addressed to one user.
type Notification struct {
	ID        string     `json:"id" bson:"_id"`
	UserID    string     `json:"userId" bson:"userId"`
	Title     string     `json:"title" bson:"title"`
	Message   string     `json:"message" bson:"message"`
	Type      Type       `json:"type" bson:"type"`
	ActionURL *string    `json:"actionUrl,omitempty" bson:"actionUrl,omitempty"`
	Read      bool       `json:"read" bson:"read"`
	ReadAt    *time.Time `json:"readAt,omitempty" bson:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// MarkAsRead stamps the notification read at the current time.
func (n *Notification) MarkAsRead() {
	if n.Read {
		return
	}
	n.Read = true
	now := time.Now().UTC()
	n.ReadAt = &now
}
