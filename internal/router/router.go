package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-job-board/internal/config"
	"go-job-board/internal/handler"
	"go-job-board/internal/middleware"
)

type Handlers struct {
	Auth *handler.AuthHandler
	Job  *handler.JobHandler
}

// New builds the route table. The mounts mirror the original API surface:
// /api/users for auth, /api/jobs for postings. Job mutations are left
// unauthenticated on purpose; the original gated them in the client only.
func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, handlers Handlers, health http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", health)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/users", func(users chi.Router) {
			users.Post("/register", handlers.Auth.Register)
			users.Post("/login", handlers.Auth.Login)
			users.With(authMiddleware.RequireAuth).Get("/profile", handlers.Auth.Profile)
		})

		api.Route("/jobs", func(jobs chi.Router) {
			jobs.Get("/", handlers.Job.List)
			jobs.Post("/", handlers.Job.Create)
			jobs.Get("/view/{uniqueId}", handlers.Job.GetByIndex)
			jobs.Put("/{id}", handlers.Job.Update)
			jobs.Delete("/{id}", handlers.Job.Delete)
			jobs.Get("/{id}", handlers.Job.Get)
		})
	})

	return r
}
