package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/trunohq/truno-ledger/internal/adapter/http/handler"
	"github.com/trunohq/truno-ledger/internal/adapter/http/middleware"
	"github.com/trunohq/truno-ledger/internal/infrastructure/metrics"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler        *handler.AccountHandler
	TransactionHandler    *handler.TransactionHandler
	TransferHandler       *handler.TransferHandler
	RecordHandler         *handler.RecordHandler
	ScheduleHandler       *handler.ScheduleHandler
	PaymentHandler        *handler.PaymentHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	Metrics               *metrics.Metrics
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1, tenant scoped
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Tenant)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.AccountHandler.GetBalance)
			r.Post("/{id}/deactivate", cfg.AccountHandler.Deactivate)
			r.Post("/{id}/reactivate", cfg.AccountHandler.Reactivate)
			r.Post("/{id}/adjust-balance", cfg.AccountHandler.AdjustBalance)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListByAccount)
			r.Get("/{id}/reconciliation", cfg.ReconciliationHandler.CheckAccount)
		})

		// Ledger entries
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/summary", cfg.TransactionHandler.Summary)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Patch("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
			r.Post("/{id}/convert", cfg.TransactionHandler.Convert)
		})

		// Internal transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Delete("/{id}", cfg.TransferHandler.Reverse)
			r.Patch("/{id}/status", cfg.TransferHandler.UpdateStatus)
		})

		// Sales and expenses share one route tree keyed by kind.
		r.Route("/records/{kind}", func(r chi.Router) {
			r.Post("/", cfg.RecordHandler.Create)
			r.Get("/", cfg.RecordHandler.List)
			r.Get("/pending", cfg.PaymentHandler.Pending)
			r.Get("/{id}", cfg.RecordHandler.Get)
			r.Delete("/{id}", cfg.RecordHandler.Delete)

			r.Post("/{id}/schedule", cfg.ScheduleHandler.Create)
			r.Get("/{id}/schedule", cfg.ScheduleHandler.List)

			r.Post("/{id}/payments", cfg.PaymentHandler.Create)
			r.Get("/{id}/payments", cfg.PaymentHandler.List)
		})

		// Payment cancellation addresses the payment directly.
		r.Delete("/payments/{paymentID}", cfg.PaymentHandler.Cancel)

		// Reconciliation
		r.Post("/reconciliation", cfg.ReconciliationHandler.Run)
	})

	return r
}
