package subscription

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/membercore/membership/pkg/binder"
	"github.com/membercore/membership/pkg/response"
	"github.com/membercore/membership/svc/identity"
)

// Router exposes the subscriber-facing lifecycle endpoints. It expects the
// identity middleware to have run.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()
	h := &handlers{svc: svc}

	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Get("/{subscriptionID}", h.get)
	r.Post("/{subscriptionID}/renew", h.renew)
	r.Post("/{subscriptionID}/cancel", h.cancel)
	r.Post("/{subscriptionID}/pause", h.pause)
	r.Post("/{subscriptionID}/resume", h.resume)
	r.Patch("/{subscriptionID}/auto-renew", h.updateAutoRenew)

	return r
}

type handlers struct {
	svc *Service
}

type createRequest struct {
	PlanID    string  `json:"planId"`
	AutoRenew *bool   `json:"autoRenew"`
	Notes     *string `json:"notes"`
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := binder.JSON(r, &req); err != nil {
		response.WriteError(w, err)
		return
	}
	if req.PlanID == "" {
		response.Error(w, http.StatusBadRequest, "invalid_argument", "planId is required")
		return
	}

	autoRenew := true
	if req.AutoRenew != nil {
		autoRenew = *req.AutoRenew
	}

	sub, err := h.svc.Create(r.Context(), actor, CreateParams{
		PlanID:    req.PlanID,
		AutoRenew: autoRenew,
		Notes:     req.Notes,
	})
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, sub)
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	subs, err := h.svc.ListForUser(r.Context(), actor, actor.UserID)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, subs)
}

func (h *handlers) summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.GetSummary(r.Context(), actor, actor.UserID)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	details, err := h.svc.Get(r.Context(), actor, chi.URLParam(r, "subscriptionID"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, details)
}

func (h *handlers) renew(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Renew)
}

func (h *handlers) pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Pause)
}

func (h *handlers) resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Resume)
}

func (h *handlers) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor identity.Actor, id string) (*Subscription, error)) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	sub, err := op(r.Context(), actor, chi.URLParam(r, "subscriptionID"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sub)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *handlers) cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req cancelRequest
	if err := binder.JSON(r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	sub, err := h.svc.Cancel(r.Context(), actor, chi.URLParam(r, "subscriptionID"), req.Reason)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sub)
}

type autoRenewRequest struct {
	AutoRenew *bool `json:"autoRenew"`
}

func (h *handlers) updateAutoRenew(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req autoRenewRequest
	if err := binder.JSON(r, &req); err != nil {
		response.WriteError(w, err)
		return
	}
	if req.AutoRenew == nil {
		response.Error(w, http.StatusBadRequest, "invalid_argument", "autoRenew is required")
		return
	}

	sub, err := h.svc.UpdateAutoRenew(r.Context(), actor, chi.URLParam(r, "subscriptionID"), *req.AutoRenew)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sub)
}

// requireActor resolves the authenticated actor or writes a 401.
func requireActor(w http.ResponseWriter, r *http.Request) (identity.Actor, bool) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return identity.Actor{}, false
	}
	return actor, true
}
