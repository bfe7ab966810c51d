package subscription_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membercore/membership/svc/identity"
	"github.com/membercore/membership/svc/subscription"
)

func newTestServer(t *testing.T) (*httptest.Server, *harness) {
	t.Helper()

	h := newHarness(t)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware)
		r.Mount("/subscriptions", subscription.Router(h.svc))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, h
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, userID, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouterStatusMapping(t *testing.T) {
	t.Parallel()

	srv, h := newTestServer(t)
	ctx := context.Background()

	t.Run("missing identity is 401", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodGet, "/subscriptions", "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("create returns 201", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPost, "/subscriptions", "u1", `{"planId":"basic"}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("unknown plan is 404", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPost, "/subscriptions", "u1", `{"planId":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("inactive plan is 422", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPost, "/subscriptions", "u1", `{"planId":"legacy"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPost, "/subscriptions", "u1", `{"planId":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	sub, err := h.svc.Create(ctx, alice, subscription.CreateParams{PlanID: "basic"})
	require.NoError(t, err)

	t.Run("empty cancel reason is 400", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPost, "/subscriptions/"+sub.ID+"/cancel", "u1", `{"reason":""}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("resume of non-paused is 422", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPost, "/subscriptions/"+sub.ID+"/resume", "u1", "")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("foreign subscription is 403", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodGet, "/subscriptions/"+sub.ID, "u2", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("auto-renew flag must be present", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPatch, "/subscriptions/"+sub.ID+"/auto-renew", "u1", `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown subscription is 404", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPost, "/subscriptions/ghost/renew", "u1", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
