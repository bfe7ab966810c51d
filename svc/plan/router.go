package plan

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/membercore/membership/pkg/response"
)

// Router exposes the public plan catalog: active plans only, cheapest first.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		plans, err := svc.ListActive(req.Context())
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, plans)
	})

	r.Get("/{planID}", func(w http.ResponseWriter, req *http.Request) {
		p, err := svc.Get(req.Context(), chi.URLParam(req, "planID"))
		if err != nil {
			response.WriteError(w, err)
			return
		}
		if !p.IsActive {
			response.WriteError(w, ErrPlanNotFound)
			return
		}
		response.JSON(w, http.StatusOK, p)
	})

	return r
}
