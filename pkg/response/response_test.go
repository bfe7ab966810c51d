package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membercore/membership/pkg/response"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	response.JSON(rec, http.StatusCreated, map[string]string{"id": "sub-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Nil(t, env.Error)
	assert.Equal(t, map[string]any{"id": "sub-1"}, env.Data)
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{response.ErrNotFound, http.StatusNotFound, "not_found"},
		{response.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
		{response.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{response.ErrInvalidState, http.StatusUnprocessableEntity, "invalid_state"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		// Domain errors wrap the kind sentinel.
		{errors.Join(errors.New("subscription not found"), response.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("wrapped: %w", response.ErrInvalidState), http.StatusUnprocessableEntity, "invalid_state"},
	}

	for _, tt := range tests {
		status, code := response.StatusOf(tt.err)
		assert.Equal(t, tt.wantStatus, status)
		assert.Equal(t, tt.wantCode, code)
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	t.Run("domain error passes message through", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		response.WriteError(rec, errors.Join(errors.New("subscription not found"), response.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var env response.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.NotNil(t, env.Error)
		assert.Equal(t, "not_found", env.Error.Code)
		assert.Contains(t, env.Error.Message, "subscription not found")
	})

	t.Run("internal error hides details", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		response.WriteError(rec, errors.New("mongo: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var env response.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.NotNil(t, env.Error)
		assert.Equal(t, "internal server error", env.Error.Message)
	})
}
