package subscription

import (
	"errors"

	"github.com/membercore/membership/pkg/response"
)

var (
	ErrSubscriptionNotFound = errors.Join(errors.New("subscription not found"), response.ErrNotFound)
	ErrInvoiceNotFound      = errors.Join(errors.New("invoice not found"), response.ErrNotFound)
	ErrPlanNotAvailable     = errors.Join(errors.New("plan is not available for subscription"), response.ErrInvalidState)
	ErrCancelReasonRequired = errors.Join(errors.New("cancellation reason is required"), response.ErrInvalidArgument)
	ErrNotPaused            = errors.Join(errors.New("only paused subscriptions can be resumed"), response.ErrInvalidState)
	ErrInvalidInvoiceStatus = errors.Join(errors.New("unknown invoice status"), response.ErrInvalidArgument)
	ErrNotOwner             = errors.Join(errors.New("subscription belongs to another user"), response.ErrUnauthorized)
)
