// Package identity carries the authenticated caller through the request.
// Token verification happens upstream; by the time a service method runs,
// the actor is trusted input.
package identity

import (
	"context"
	"errors"
)

// Role is the coarse authorization level of an actor.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor may act on a resource owned by userID:
// either the actor is the owner or an admin.
func (a Actor) Owns(userID string) bool {
	return a.UserID == userID || a.IsAdmin()
}

var ErrActorNotInContext = errors.New("identity: actor not found in context")

type actorCtxKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// FromContext extracts the actor set by the authentication middleware.
func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorCtxKey{}).(Actor)
	return actor, ok
}
