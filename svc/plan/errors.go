package plan

import (
	"errors"

	"github.com/membercore/membership/pkg/response"
)

var (
	ErrPlanNotFound     = errors.Join(errors.New("subscription plan not found"), response.ErrNotFound)
	ErrNegativePrice    = errors.Join(errors.New("plan price cannot be negative"), response.ErrInvalidArgument)
	ErrInvalidCycle     = errors.Join(errors.New("invalid billing cycle"), response.ErrInvalidArgument)
	ErrNameRequired     = errors.Join(errors.New("plan name is required"), response.ErrInvalidArgument)
	ErrCurrencyRequired = errors.Join(errors.New("plan currency is required"), response.ErrInvalidArgument)
)
