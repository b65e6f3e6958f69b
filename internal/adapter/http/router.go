package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WalletHandler     *handler.WalletHandler
	ManagementHandler *handler.ManagementHandler
	HealthHandler     *handler.HealthHandler
	RateLimiter       *middleware.RateLimiter
	HTTPMetrics       *middleware.HTTPMetrics
	// Gatherer backs /metrics. Defaults to the global registry.
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", cfg.WalletHandler.Create)
			r.Get("/", cfg.WalletHandler.List)
			r.Post("/transfer", cfg.WalletHandler.Transfer)
			r.Get("/{id}", cfg.WalletHandler.Get)
			r.Post("/{id}/deposit", cfg.WalletHandler.Deposit)
			r.Post("/{id}/withdraw", cfg.WalletHandler.Withdraw)
			r.Get("/{id}/transactions", cfg.WalletHandler.ListTransactions)
			r.Get("/{id}/ledger", cfg.WalletHandler.ListLedger)
		})

		r.Get("/transactions/{id}", cfg.WalletHandler.GetTransaction)

		r.Route("/management", func(r chi.Router) {
			r.Post("/blacklist", cfg.ManagementHandler.Block)
			r.Get("/blacklist", cfg.ManagementHandler.ListBlacklist)
			r.Delete("/blacklist/{walletId}", cfg.ManagementHandler.Unblock)
			r.Get("/reconciliation", cfg.ManagementHandler.Reconciliation)
		})
	})

	return r
}
