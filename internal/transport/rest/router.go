package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"

	"github.com/dkralj/workshop-management/internal/audit"
	"github.com/dkralj/workshop-management/internal/auth"
	"github.com/dkralj/workshop-management/internal/invoice"
	"github.com/dkralj/workshop-management/internal/session"
	"github.com/dkralj/workshop-management/internal/stats"
	"github.com/dkralj/workshop-management/internal/transport/middleware"
	"github.com/dkralj/workshop-management/internal/transport/swagger"
	"github.com/dkralj/workshop-management/internal/user"
	"github.com/dkralj/workshop-management/internal/vehicle"
	"github.com/dkralj/workshop-management/internal/workorder"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Vehicle   *vehicle.Handler
	WorkOrder *workorder.Handler
	Invoice   *invoice.Handler
	Audit     *audit.Handler
	Session   *session.Handler
	Stats     *stats.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware())

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", h.Auth.Login)

		// Everything below requires a valid token.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", h.Auth.Me)

			pr.Group(func(or chi.Router) {
				or.Use(h.Auth.RequireAnyRole(auth.RoleOwner))
				or.Get("/users", h.User.List)
				or.Post("/users", h.User.Create)
			})
			pr.Put("/users/{id}", h.User.Update)
			pr.Get("/users/{id}/permissions", h.User.Permissions)

			pr.Get("/roles", h.User.Roles)
			pr.Get("/mechanics", h.User.Mechanics)
			pr.Get("/customers", h.User.Customers)

			pr.Get("/vehicles", h.Vehicle.List)
			pr.Post("/vehicles", h.Vehicle.Create)

			pr.Route("/work-orders", func(wr chi.Router) {
				wr.Get("/", h.WorkOrder.List)
				wr.Post("/", h.WorkOrder.Create)
				wr.Get("/{id}", h.WorkOrder.Get)
				wr.Put("/{id}/status", h.WorkOrder.UpdateStatus)
				wr.Put("/{id}/mechanic", h.WorkOrder.AssignMechanic)
				wr.Post("/{id}/logs", h.WorkOrder.AddLog)
			})

			pr.Get("/invoices", h.Invoice.List)
			pr.Put("/invoices/{id}/pay", h.Invoice.MarkPaid)

			pr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireAnyRole(auth.RoleOwner, auth.RoleHeadMechanic))
				ar.Get("/audit-log", h.Audit.List)
			})

			pr.Get("/sessions", h.Session.List)
			pr.Delete("/sessions/{id}", h.Session.Revoke)

			pr.Get("/stats/dashboard", h.Stats.Dashboard)
			pr.Get("/stats/mechanic-dashboard", h.Stats.MechanicDashboard)
			pr.Get("/stats/customer-dashboard", h.Stats.CustomerDashboard)
		})
	})
}
