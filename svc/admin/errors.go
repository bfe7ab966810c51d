package admin

import (
	"errors"

	"github.com/membercore/membership/pkg/response"
)

var (
	ErrAdminRequired = errors.Join(errors.New("admin role required"), response.ErrUnauthorized)
	ErrNoRecipients  = errors.Join(errors.New("at least one recipient is required"), response.ErrInvalidArgument)
)
