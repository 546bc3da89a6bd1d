package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mmartins/centsible/internal/http/alerts"
	"github.com/mmartins/centsible/internal/http/categorize"
	"github.com/mmartins/centsible/internal/http/importcsv"
	"github.com/mmartins/centsible/internal/http/middleware"
	"github.com/mmartins/centsible/internal/http/report"
	"github.com/mmartins/centsible/internal/http/transaction"
)

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Config struct {
	JWTSecret      string
	AllowedOrigins []string
	DB             Pinger
}

func New(
	cfg Config,
	transactionsV1 *transaction.Handler,
	categorizeV1 *categorize.Handler,
	alertsV1 *alerts.Handler,
	reportsV1 *report.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if cfg.DB != nil {
			if err := cfg.DB.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unhealthy","database":"unreachable"}`))

				return
			}
		}

		_, _ = w.Write([]byte(`{"status":"ok","database":"connected"}`))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWTSecret))

		r.Route("/ingest", func(r chi.Router) {
			r.Use(chimiddleware.AllowContentType("application/json"))
			transactionsV1.IngestRoutes(r)
		})

		r.Route("/transactions", transactionsV1.Routes)

		r.Route("/categorize", categorizeV1.Routes)

		r.Route("/finalize", func(r chi.Router) {
			r.Use(chimiddleware.AllowContentType("application/json"))
			categorizeV1.FinalizeRoutes(r)
		})

		r.Route("/alerts", alertsV1.Routes)

		r.Route("/reports", reportsV1.Routes)

		r.Route("/import", importV1.Routes)
	})

	return router
}
