package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-esg-platform/internal/config"
	"go-esg-platform/internal/handler"
	"go-esg-platform/internal/metrics"
	"go-esg-platform/internal/middleware"
	"go-esg-platform/pkg/role"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Account *handler.AccountHandler
	Admin   *handler.AdminHandler
	Audit   *handler.AuditHandler
	// Health reports readiness; nil means always healthy.
	Health func(r *http.Request) error
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if h.Health != nil {
			if err := h.Health(req); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/{role}/login", h.Auth.Login)
			auth.Post("/{role}/signup", h.Auth.Signup)

			auth.Group(func(private chi.Router) {
				private.Use(authMiddleware.RequireAuth)
				private.Get("/me", h.Auth.Me)
				private.Post("/logout", h.Auth.Logout)
				private.Post("/change-password", h.Account.ChangePassword)
				private.Delete("/delete-account", h.Account.DeleteAccount)
			})
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(authMiddleware.RequireAuth, authMiddleware.RequireRoles(role.Admin))
			admin.Get("/accounts/{role}/pending", h.Admin.ListPending)
			admin.Post("/accounts/{role}/{id}/approve", h.Admin.Approve)
			admin.Get("/audit", h.Audit.List)
		})
	})

	return r
}
