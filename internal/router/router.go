package router

import (
	"net/http"

	"wastenot-api/internal/handler"
	"wastenot-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler           *handler.Handler
	ItemHandler       *handler.ItemHandler
	InventoryHandler  *handler.InventoryHandler
	InvitationHandler *handler.InvitationHandler
	UserHandler       *handler.UserHandler
	AuthHandler       *handler.AuthHandler
	AdminHandler      *handler.AdminHandler
	AuthMiddleware    func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Token", "X-User-ID", "X-Inventory-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
		r.Get("/api/v1/health", cfg.Handler.Health)
		r.Get("/api/v1/ready", cfg.Handler.Ready)
	}

	if cfg.AuthHandler != nil {
		r.Post("/api/v1/auth/register", cfg.AuthHandler.Register)
		r.Post("/api/v1/auth/login", cfg.AuthHandler.Login)
	}

	// AUTHENTICATED routes (use Group to apply auth middleware only to these)
	r.Group(func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware)
		}

		// Flat item routes: the target inventory comes from the
		// X-Inventory-ID header or the caller's resolved selection.
		if cfg.ItemHandler != nil {
			r.Route("/inventory", func(r chi.Router) {
				r.Post("/", cfg.ItemHandler.CreateItem)
				r.Get("/", cfg.ItemHandler.ListItems)
				r.Get("/{id}", cfg.ItemHandler.GetItem)
				r.Put("/{id}", cfg.ItemHandler.UpdateItem)
				r.Delete("/{id}", cfg.ItemHandler.DeleteItem)
			})
		}

		if cfg.UserHandler != nil {
			r.Route("/user/profile", func(r chi.Router) {
				r.Get("/", cfg.UserHandler.GetProfile)
				r.Put("/", cfg.UserHandler.UpdateProfile)
			})
		}

		// API v1 routes
		r.Route("/api/v1", func(r chi.Router) {
			if cfg.AuthHandler != nil {
				r.Post("/auth/revoke", cfg.AuthHandler.RevokeToken)
			}

			if cfg.InventoryHandler != nil {
				r.Route("/inventories", func(r chi.Router) {
					r.Post("/", cfg.InventoryHandler.CreateInventory)
					r.Get("/", cfg.InventoryHandler.ListInventories)

					r.Route("/{inventoryID}", func(r chi.Router) {
						r.Put("/", cfg.InventoryHandler.RenameInventory)
						r.Get("/members", cfg.InventoryHandler.ListMembers)

						if cfg.InvitationHandler != nil {
							r.Post("/invitations", cfg.InvitationHandler.Invite)
						}

						if cfg.ItemHandler != nil {
							r.Route("/items", func(r chi.Router) {
								r.Post("/", cfg.ItemHandler.CreateItem)
								r.Get("/", cfg.ItemHandler.ListItems)
								r.Get("/{id}", cfg.ItemHandler.GetItem)
								r.Put("/{id}", cfg.ItemHandler.UpdateItem)
								r.Delete("/{id}", cfg.ItemHandler.DeleteItem)
							})
						}
					})
				})
			}

			if cfg.InvitationHandler != nil {
				r.Route("/invitations", func(r chi.Router) {
					r.Post("/", cfg.InvitationHandler.Invite)
					r.Get("/", cfg.InvitationHandler.ListPending)
					r.Post("/{id}/accept", cfg.InvitationHandler.Accept)
					r.Post("/{id}/decline", cfg.InvitationHandler.Decline)
				})
			}

			if cfg.AdminHandler != nil {
				r.Get("/admin/stats", cfg.AdminHandler.GetStats)
			}
		})
	})

	return r
}
