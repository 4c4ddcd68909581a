package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"zakatledger/internal/middleware"
	"zakatledger/internal/obs"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	serviceAuth := middleware.ServiceAuth(h.cfg.ServiceTokenHash, h.cfg.ServiceToken)
	rateLimit := middleware.RateLimit(h.cfg.RateLimitPerSecond, h.cfg.RateLimitBurst)

	router.Route("/ledger", func(r chi.Router) {
		r.Use(serviceAuth)
		r.With(rateLimit).Post("/deposit", h.Deposit)
		r.With(rateLimit).Post("/withdraw", h.Withdraw)
		r.With(rateLimit).Post("/transfer", h.Transfer)
		r.With(rateLimit).Post("/charity", h.PayCharity)
		r.With(rateLimit).Post("/zakat/pay", h.PayZakat)
		r.Get("/accounts/{id}", h.GetAccount)
		r.Get("/accounts/{id}/transactions", h.ListTransactions)
		r.Get("/accounts/{id}/zakat", h.GetObligation)
		r.Get("/accounts/{id}/self-check", h.SelfCheck)
		r.Get("/audit", h.ListAuditLogs)
		r.Post("/ws-token", h.WSToken)
	})

	router.Get("/ws/balances", h.WSBalances)
	router.Method(http.MethodGet, "/metrics", obs.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
