// Package member manages user records: profile reads, allow-listed profile
// updates, suspension, and deletion. Authentication and token issuance live
// upstream; this package only sees established identities.
package member

import (
	"errors"
	"strings"
	"time"

	"github.com/membercore/membership/pkg/response"
)

// Status is the account standing of a user.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// User is a membership account record.
type User struct {
	ID          string     `json:"id" bson:"_id"`
	Email       string     `json:"email" bson:"email"`
	Name        string     `json:"name" bson:"name"`
	Surname     string     `json:"surname" bson:"surname"`
	Role        string     `json:"role" bson:"role"`
	Status      Status     `json:"status" bson:"status"`
	Phone       *string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address     *string    `json:"address,omitempty" bson:"address,omitempty"`
	City        *string    `json:"city,omitempty" bson:"city,omitempty"`
	Country     *string    `json:"country,omitempty" bson:"country,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Gender      *string    `json:"gender,omitempty" bson:"gender,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// FullName returns the display name used in outbound email.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

var ErrUserNotFound = errors.Join(errors.New("user not found"), response.ErrNotFound)
