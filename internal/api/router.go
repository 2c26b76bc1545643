package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/nyumba/nyumba/internal/api/handler"
	"github.com/nyumba/nyumba/internal/api/middleware"
	"github.com/nyumba/nyumba/internal/guard"
	"github.com/nyumba/nyumba/internal/identity"
	"github.com/nyumba/nyumba/internal/lease"
	"github.com/nyumba/nyumba/internal/maintenance"
	"github.com/nyumba/nyumba/internal/message"
	"github.com/nyumba/nyumba/internal/payment"
	"github.com/nyumba/nyumba/internal/property"
	"github.com/nyumba/nyumba/internal/roles"
	"github.com/nyumba/nyumba/internal/tenant"
	"github.com/nyumba/nyumba/internal/unit"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Provider      identity.Provider
	Roles         *roles.Service
	DBPinger      handler.DBPinger
	SessionPinger handler.SessionPinger
	Version       string

	Properties    property.Repository
	Units         unit.Repository
	Tenants       tenant.Repository
	Leases        lease.Repository
	Maintenance   maintenance.Repository
	Payments      payment.Repository
	Messages      message.Repository
	Notifications message.NotificationRepository
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.SessionPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	auth := middleware.Auth(deps.Provider, deps.Roles)

	authHandler := handler.NewAuthHandler(deps.Provider, deps.Roles)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/login", authHandler.SignIn)
		r.Post("/logout", authHandler.SignOut)
		r.With(auth).Get("/me", authHandler.Me)
	})

	propertyHandler := handler.NewPropertyHandler(deps.Properties, deps.Units)
	unitHandler := handler.NewUnitHandler(deps.Units)
	tenantHandler := handler.NewTenantHandler(deps.Tenants)
	leaseHandler := handler.NewLeaseHandler(deps.Leases)
	maintenanceHandler := handler.NewMaintenanceHandler(deps.Maintenance)
	paymentHandler := handler.NewPaymentHandler(deps.Payments)
	messageHandler := handler.NewMessageHandler(deps.Messages, deps.Notifications, deps.Tenants)

	r.Group(func(r chi.Router) {
		r.Use(auth)

		// Admin-only management surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Guard(guard.Policy{RequireAuth: true, RequireAdmin: true}))

			r.Route("/properties", func(r chi.Router) {
				r.Post("/", propertyHandler.Create)
				r.Get("/", propertyHandler.List)
				r.Get("/{id}", propertyHandler.GetByID)
				r.Patch("/{id}", propertyHandler.Update)
				r.Delete("/{id}", propertyHandler.Delete)
				r.Get("/{id}/units", propertyHandler.ListUnits)
			})

			r.Route("/units", func(r chi.Router) {
				r.Post("/", unitHandler.Create)
				r.Get("/", unitHandler.List)
				r.Get("/{id}", unitHandler.GetByID)
				r.Patch("/{id}", unitHandler.Update)
				r.Delete("/{id}", unitHandler.Delete)
			})

			r.Route("/tenants", func(r chi.Router) {
				r.Get("/", tenantHandler.List)
				r.Get("/{id}", tenantHandler.GetByID)
				r.Patch("/{id}", tenantHandler.Update)
			})

			r.Route("/leases", func(r chi.Router) {
				r.Post("/", leaseHandler.Create)
				r.Get("/", leaseHandler.List)
				r.Get("/{id}", leaseHandler.GetByID)
				r.Patch("/{id}/status", leaseHandler.UpdateStatus)
			})

			r.Route("/maintenance-requests", func(r chi.Router) {
				r.Get("/", maintenanceHandler.List)
				r.Patch("/{id}", maintenanceHandler.Update)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", paymentHandler.List)
				r.Post("/{id}/verify", paymentHandler.Verify)
			})

			r.Post("/announcements", messageHandler.Announce)
		})

		// Tenant self-service surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Guard(guard.Policy{RequireAuth: true, RequireTenant: true}))

			r.Route("/my", func(r chi.Router) {
				r.Get("/leases", leaseHandler.ListMine)
				r.Get("/maintenance-requests", maintenanceHandler.ListMine)
				r.Post("/maintenance-requests", maintenanceHandler.Create)
				r.Get("/payments", paymentHandler.ListMine)
				r.Post("/payments", paymentHandler.Create)
			})
		})

		// Messaging is open to any signed-in principal.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Guard(guard.DefaultPolicy()))

			r.Route("/messages", func(r chi.Router) {
				r.Post("/", messageHandler.Send)
				r.Get("/", messageHandler.List)
				r.Post("/{id}/seen", messageHandler.MarkSeen)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", messageHandler.ListNotifications)
				r.Post("/{id}/read", messageHandler.MarkNotificationRead)
			})
		})
	})

	return r
}
