package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/transport"
	"github.com/dkralj/workshop-management/pkg/logger"
)

type ctxKey string

const contextProfileKey ctxKey = "userProfile"

// ProfileFromContext returns the caller profile stored by AuthMiddleware.
func ProfileFromContext(ctx context.Context) (*UserProfile, bool) {
	profile, ok := ctx.Value(contextProfileKey).(*UserProfile)
	return profile, ok
}

func ContextWithProfile(ctx context.Context, profile *UserProfile) context.Context {
	return context.WithValue(ctx, contextProfileKey, profile)
}

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

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Authenticate(r.Context(), dto, clientIP(r), r.UserAgent())
	if err != nil {
		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	profile, ok := ProfileFromContext(r.Context())
	if !ok || profile == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

// AuthMiddleware is the authentication gate: it validates the bearer token
// on every protected request and resolves it to a caller profile. It does
// not consult the session ledger; a signed, unexpired token is accepted even
// if its originating session was revoked. That trade-off keeps the check
// stateless at the cost of true revocation.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, internal.ErrTokenMissing)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.HandleServiceError(w, internal.ErrTokenInvalid)
			return
		}

		profile, err := h.Service.CurrentUser(r.Context(), claims.Subject)
		if err != nil {
			h.Logger.Error("auth middleware: failed to resolve caller", "error", err, "user_id", claims.Subject)
			h.HandleServiceError(w, internal.ErrTokenInvalid)
			return
		}

		ctx := ContextWithProfile(r.Context(), profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAnyRole guards a route group with an explicit allowed role set.
// Handlers must enumerate every role they accept, owner included; holding a
// senior role does not implicitly satisfy a check for a junior one.
func (h *Handler) RequireAnyRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := ProfileFromContext(r.Context())
			if !ok || profile == nil {
				h.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !profile.HasAnyRole(roles...) {
				h.Logger.Warn("access denied: insufficient role",
					"user_id", profile.ID,
					"required_roles", roles,
					"user_roles", profile.Roles)
				h.HandleServiceError(w, internal.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
