package notification

import (
	"errors"

	"github.com/membercore/membership/pkg/response"
)

var (
	ErrNotificationNotFound = errors.Join(errors.New("notification not found"), response.ErrNotFound)
	ErrInvalidType          = errors.Join(errors.New("unknown notification type"), response.ErrInvalidArgument)
	ErrTitleRequired        = errors.Join(errors.New("notification title is required"), response.ErrInvalidArgument)
	ErrMessageRequired      = errors.Join(errors.New("notification message is required"), response.ErrInvalidArgument)
)
