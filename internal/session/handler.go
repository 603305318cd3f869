package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/dkralj/workshop-management/internal/auth"
	"github.com/dkralj/workshop-management/internal/transport"
	"github.com/dkralj/workshop-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// List handles GET /api/sessions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profile, ok := auth.ProfileFromContext(r.Context())
	if !ok || profile == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessions, err := h.Service.List(r.Context(), profile)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sessions)
}

// Revoke handles DELETE /api/sessions/{id}.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	profile, ok := auth.ProfileFromContext(r.Context())
	if !ok || profile == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessionID := chi.URLParam(r, "id")

	if err := h.Service.Revoke(r.Context(), sessionID, profile); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "session revoked"})
}
