package audit

import (
	"net/http"
	"strconv"

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

// List handles GET /api/audit-log.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := Filter{
		TableName:  r.URL.Query().Get("table_name"),
		ActionType: r.URL.Query().Get("action_type"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}

	entries, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}
