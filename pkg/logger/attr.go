package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// Nil errors produce an empty Attr which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// SubscriptionID records a subscription identifier under the key "subscription_id".
func SubscriptionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("subscription_id", id)
}

// PlanID records a plan identifier under the key "plan_id".
func PlanID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("plan_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
