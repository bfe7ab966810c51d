package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/membercore/membership/pkg/binder"
	"github.com/membercore/membership/pkg/response"
	"github.com/membercore/membership/svc/identity"
	"github.com/membercore/membership/svc/member"
	"github.com/membercore/membership/svc/notification"
	"github.com/membercore/membership/svc/plan"
	"github.com/membercore/membership/svc/subscription"
)

// Router exposes the admin surface. Identity middleware must have run; the
// admin role is enforced here and again inside the service.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()
	r.Use(identity.RequireAdmin)
	h := &handlers{svc: svc}

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.listUsers)
		r.Get("/{userID}", h.getUserDetails)
		r.Patch("/{userID}", h.updateUser)
		r.Post("/{userID}/suspend", h.suspendUser)
		r.Delete("/{userID}", h.deleteUser)
	})

	r.Route("/subscriptions", func(r chi.Router) {
		r.Get("/", h.listSubscriptions)
		r.Get("/{subscriptionID}", h.getSubscriptionDetails)
		r.Patch("/{subscriptionID}", h.updateSubscription)
		r.Post("/{subscriptionID}/pause", h.pauseSubscription)
		r.Post("/{subscriptionID}/resume", h.resumeSubscription)
		r.Post("/{subscriptionID}/cancel", h.cancelSubscription)
	})

	r.Route("/plans", func(r chi.Router) {
		r.Get("/", h.listPlans)
		r.Post("/", h.createPlan)
		r.Patch("/{planID}", h.updatePlan)
		r.Post("/{planID}/deactivate", h.deactivatePlan)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", h.listInvoices)
		r.Patch("/{invoiceID}/status", h.updateInvoiceStatus)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Post("/", h.sendNotification)
		r.Post("/bulk", h.sendBulkNotification)
	})

	r.Get("/report", h.report)

	return r
}

type handlers struct {
	svc *Service
}

func actorFrom(w http.ResponseWriter, r *http.Request) (identity.Actor, bool) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return identity.Actor{}, false
	}
	return actor, true
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	users, err := h.svc.ListUsers(r.Context(), actor, member.SearchFilter{
		Role:   q.Get("role"),
		Status: member.Status(q.Get("status")),
		Search: q.Get("search"),
	})
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, users)
}

func (h *handlers) getUserDetails(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	details, err := h.svc.GetUserDetails(r.Context(), actor, chi.URLParam(r, "userID"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, details)
}

func (h *handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var params member.UpdateParams
	if err := binder.JSON(r, &params); err != nil {
		response.WriteError(w, err)
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), actor, chi.URLParam(r, "userID"), params)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, u)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *handlers) suspendUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req reasonRequest
	if err := binder.JSON(r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	if err := h.svc.SuspendUser(r.Context(), actor, chi.URLParam(r, "userID"), req.Reason); err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(r.Context(), actor, chi.URLParam(r, "userID")); err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handlers) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	subs, err := h.svc.ListSubscriptions(r.Context(), actor, subscription.ListFilter{
		UserID: q.Get("userId"),
		Status: subscription.Status(q.Get("status")),
		PlanID: q.Get("planId"),
	})
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, subs)
}

func (h *handlers) getSubscriptionDetails(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	details, err := h.svc.GetSubscriptionDetails(r.Context(), actor, chi.URLParam(r, "subscriptionID"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, details)
}

func (h *handlers) updateSubscription(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var patch SubscriptionPatch
	if err := binder.JSON(r, &patch); err != nil {
		response.WriteError(w, err)
		return
	}

	sub, err := h.svc.UpdateSubscription(r.Context(), actor, chi.URLParam(r, "subscriptionID"), patch)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sub)
}

func (h *handlers) pauseSubscription(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req reasonRequest
	if err := binder.JSON(r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	sub, err := h.svc.PauseSubscription(r.Context(), actor, chi.URLParam(r, "subscriptionID"), req.Reason)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sub)
}

func (h *handlers) resumeSubscription(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	sub, err := h.svc.ResumeSubscription(r.Context(), actor, chi.URLParam(r, "subscriptionID"))
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sub)
}

func (h *handlers) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req reasonRequest
	if err := binder.JSON(r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	sub, err := h.svc.CancelSubscription(r.Context(), actor, chi.URLParam(r, "subscriptionID"), req.Reason)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sub)
}

func (h *handlers) listPlans(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	plans, err := h.svc.ListPlans(r.Context(), actor)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, plans)
}

func (h *handlers) createPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var params plan.CreateParams
	if err := binder.JSON(r, &params); err != nil {
		response.WriteError(w, err)
		return
	}

	p, err := h.svc.CreatePlan(r.Context(), actor, params)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, p)
}

func (h *handlers) updatePlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var params plan.UpdateParams
	if err := binder.JSON(r, &params); err != nil {
		response.WriteError(w, err)
		return
	}

	p, err := h.svc.UpdatePlan(r.Context(), actor, chi.URLParam(r, "planID"), params)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *handlers) deactivatePlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeactivatePlan(r.Context(), actor, chi.URLParam(r, "planID")); err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handlers) listInvoices(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	invoices, err := h.svc.ListInvoices(r.Context(), actor, subscription.InvoiceFilter{
		UserID: q.Get("userId"),
		Status: subscription.InvoiceStatus(q.Get("status")),
	})
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, invoices)
}

type invoiceStatusRequest struct {
	Status subscription.InvoiceStatus `json:"status"`
}

func (h *handlers) updateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req invoiceStatusRequest
	if err := binder.JSON(r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	inv, err := h.svc.UpdateInvoiceStatus(r.Context(), actor, chi.URLParam(r, "invoiceID"), req.Status)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, inv)
}

type notificationRequest struct {
	UserID  string            `json:"userId"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Type    notification.Type `json:"type"`
}

func (h *handlers) sendNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req notificationRequest
	if err := binder.JSON(r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	if err := h.svc.SendNotification(r.Context(), actor, req.UserID, req.Title, req.Message, req.Type); err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

type bulkNotificationRequest struct {
	UserIDs []string          `json:"userIds"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Type    notification.Type `json:"type"`
}

func (h *handlers) sendBulkNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req bulkNotificationRequest
	if err := binder.JSON(r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	result, err := h.svc.SendBulkNotification(r.Context(), actor, req.UserIDs, req.Title, req.Message, req.Type)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *handlers) report(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	report, err := h.svc.Report(r.Context(), actor)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}
