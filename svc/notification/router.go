package notification

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/membercore/membership/pkg/response"
	"github.com/membercore/membership/svc/identity"
)

// Router exposes the notification feed endpoints. It expects the identity
// middleware to have run.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()
	h := &handlers{svc: svc}

	r.Get("/", h.list)
	r.Get("/unread-count", h.unreadCount)
	r.Post("/{notificationID}/read", h.markRead)
	r.Post("/read-all", h.markAllRead)

	return r
}

type handlers struct {
	svc *Service
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	opts := ListOptions{}
	if r.URL.Query().Get("unread") == "true" {
		opts.OnlyUnread = true
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			response.Error(w, http.StatusBadRequest, "invalid_argument", "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}

	items, err := h.svc.List(r.Context(), actor.UserID, opts)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	count, err := h.svc.CountUnread(r.Context(), actor.UserID)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (h *handlers) markRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	if err := h.svc.MarkRead(r.Context(), actor.UserID, chi.URLParam(r, "notificationID")); err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handlers) markAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	if err := h.svc.MarkAllRead(r.Context(), actor.UserID); err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
