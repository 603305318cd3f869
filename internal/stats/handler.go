package stats

import (
	"net/http"

	"github.com/dkralj/workshop-management/internal/auth"
	"github.com/dkralj/workshop-management/internal/transport"
	"github.com/dkralj/workshop-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

// Dashboard handles GET /api/stats/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	profile, ok := auth.ProfileFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dashboard, err := h.Service.Dashboard(r.Context(), profile)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dashboard)
}

// MechanicDashboard handles GET /api/stats/mechanic-dashboard.
func (h *Handler) MechanicDashboard(w http.ResponseWriter, r *http.Request) {
	profile, ok := auth.ProfileFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dashboard, err := h.Service.MechanicDashboard(r.Context(), profile)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dashboard)
}

// CustomerDashboard handles GET /api/stats/customer-dashboard.
func (h *Handler) CustomerDashboard(w http.ResponseWriter, r *http.Request) {
	profile, ok := auth.ProfileFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dashboard, err := h.Service.CustomerDashboard(r.Context(), profile)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dashboard)
}
