// Package httpd exposes the staking ledger over HTTP. It is a thin
// collaborator: all accounting rules live in the ledger orchestrator.
package httpd

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vault-staking-go/internal/auth"
	"vault-staking-go/internal/ledger"
	"vault-staking-go/internal/models"
)

type contextKey string

const userIdContextKey contextKey = "userId"

// Server is the staking ledger HTTP API server.
type Server struct {
	ledger *ledger.Service
	auth   *auth.Authenticator
	cfg    models.ServerConfig
}

func NewServer(ledgerService *ledger.Service, authenticator *auth.Authenticator, cfg models.ServerConfig) *Server {
	return &Server{
		ledger: ledgerService,
		auth:   authenticator,
		cfg:    cfg,
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/plans", s.handleListPlans)

	if s.cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(s.authenticated)

		r.Post("/deposit", s.handleDeposit)
		r.Post("/withdraw", s.handleWithdraw)
		r.Post("/stake", s.handleStake)
		r.Post("/unstake", s.handleUnstake)

		r.Get("/balance", s.handleGetBalance)
		r.Get("/positions", s.handleListPositions)
		r.Get("/transactions", s.handleListTransactions)
	})

	return r
}

// authenticated resolves the bearer credential to a user id and stores it on
// the request context.
func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid authorization header")
			return
		}

		userId, err := s.auth.ResolveCredential(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIdContextKey, userId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIdFromContext(ctx context.Context) (string, bool) {
	userId, ok := ctx.Value(userIdContextKey).(string)
	return userId, ok
}
