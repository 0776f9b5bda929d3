package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/config"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/handlers"
	authmw "github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/middleware"
)

func New(
	rec *handlers.RecommendationsHandler,
	admin *handlers.AdminHandler,
	z *handlers.HealthHandler,
	auth *authmw.AuthMiddleware,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(authmw.RequestID)
	r.Use(authmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authmw.AccessLog)
	r.Use(authmw.Metrics)

	if cfg.RLEnabled {
		r.Use(httprate.Limit(
			cfg.RLLimit,
			cfg.RLWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
	}

	r.Get("/healthz", z.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/rec/v1", func(r chi.Router) {
		r.Get("/videos/{video_id}/similar", rec.Similar)
		r.Get("/scoring/health", admin.ScoringHealth)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)
			r.Get("/feed", rec.Feed)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)
			r.Use(auth.RequireRole("admin"))
			r.Post("/admin/embeddings/sync", admin.SyncEmbeddings)
		})
	})

	return r
}
