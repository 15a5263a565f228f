package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	mW "github.com/bankingapp/ledger/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter mounts the JSON API under /api/v1
func NewRouter(ledger Ledger, accounts Accounts, logger *zap.Logger) http.Handler {
	ledgerHandler := NewLedgerHandler(ledger, accounts, logger)
	accountHandler := NewAccountHandler(accounts, ledger, logger)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", mW.PasswordHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", accountHandler.Register)
		r.Post("/accounts", accountHandler.CreateAccount)
		r.Post("/auth/login", accountHandler.Login)
		r.Get("/users/{userId}/accounts", accountHandler.ListAccounts)

		r.Route("/accounts/{accountId}", func(r chi.Router) {
			r.Use(mW.AccountAuth(ledger, logger))

			r.Get("/balance", ledgerHandler.GetBalance)
			r.Post("/deposit", ledgerHandler.Deposit)
			r.Post("/withdraw", ledgerHandler.Withdraw)
			r.Post("/freeze", ledgerHandler.Freeze)
			r.Get("/transactions", ledgerHandler.Transactions)
		})
	})

	return r
}
