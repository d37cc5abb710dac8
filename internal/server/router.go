package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brigantine-ci/brigantine/internal/config"
	"github.com/brigantine-ci/brigantine/internal/core"
	"github.com/brigantine-ci/brigantine/internal/server/handler"
	"github.com/brigantine-ci/brigantine/internal/storage"
)

// NewRouter creates and configures a new HTTP router with middleware and
// API routes.
func NewRouter(cfg *config.Config, dispatcher core.JobDispatcher, store storage.Store, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		webhookHandler := handler.NewWebhookHandler(cfg, dispatcher, logger)
		apiHandler := handler.NewAPIHandler(dispatcher, store, logger)
		r.Post("/webhook/github", webhookHandler.Handle)
		r.Post("/exec", apiHandler.Exec)
		r.Get("/builds", apiHandler.Builds)
	})

	return r
}
