package server

import (
	"net/http"

	"github.com/cloo-solutions/jobfinder/internal/api"
	"github.com/cloo-solutions/jobfinder/internal/api/handlers"
	"github.com/cloo-solutions/jobfinder/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

const defaultMaxBodyBytes int64 = 1 << 20

type RouterConfig struct {
	Proxy        *handlers.ProxyHandler
	MaxBodyBytes int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", cfg.Proxy.Login)
		r.Post("/auth/signup", cfg.Proxy.Signup)

		r.Get("/categories", cfg.Proxy.Categories)
		r.Get("/jobs", cfg.Proxy.Jobs)
		r.Post("/search", cfg.Proxy.Search)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBearer)

			r.Post("/jobs/save", cfg.Proxy.SaveJob)
			r.Delete("/jobs/save/{jobId}", cfg.Proxy.UnsaveJob)
			r.Get("/jobs/saved", cfg.Proxy.SavedJobs)
			r.Get("/preferences", cfg.Proxy.GetPreferences)
			r.Put("/preferences", cfg.Proxy.UpdatePreferences)
		})
	})

	return r
}
