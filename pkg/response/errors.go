package response

import (
	"errors"
	"net/http"
)

// Kind classifies a rejected operation for HTTP mapping. Domain packages
// wrap one of these sentinels into their own errors with errors.Join so
// routers can translate without knowing every domain sentinel.
var (
	ErrNotFound        = errors.New("not_found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid_argument")
	ErrInvalidState    = errors.New("invalid_state")
)

// StatusOf maps an error to its HTTP status and error code. Unclassified
// errors map to 500/internal_error.
func StatusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, ErrInvalidState):
		return http.StatusUnprocessableEntity, "invalid_state"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// WriteError maps err and writes the error envelope. Internal errors hide
// the underlying message from clients.
func WriteError(w http.ResponseWriter, err error) {
	status, code := StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	Error(w, status, code, message)
}
