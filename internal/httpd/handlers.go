package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-staking-go/internal/database"
	"vault-staking-go/internal/ledger"
	"vault-staking-go/internal/plans"
)

const (
	codeUnauthenticated     = "unauthenticated"
	codeValidation          = "validation_error"
	codeNotFound            = "not_found"
	codeInsufficientBalance = "insufficient_balance"
	codeBelowMinimumStake   = "below_minimum_stake"
	codeConflict            = "conflict"
	codeInternal            = "internal_error"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staking_ledger_operations_total",
		Help: "Ledger operations processed, by operation and outcome.",
	}, []string{"operation", "outcome"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "staking_ledger_operation_duration_seconds",
		Help:    "Latency of ledger operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type withdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type stakeRequest struct {
	PlanId string          `json:"plan_id"`
	Amount decimal.Decimal `json:"amount"`
}

type unstakeRequest struct {
	PositionId string `json:"position_id"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Error: message})
}

// writeOperationError maps domain sentinels onto HTTP statuses and stable
// error codes. Unrecognized errors are logged and reported as internal.
func writeOperationError(w http.ResponseWriter, operation string, err error) {
	operationsTotal.WithLabelValues(operation, "error").Inc()

	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidRequest),
		errors.Is(err, ledger.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, plans.ErrPlanNotFound),
		errors.Is(err, database.ErrPositionNotFound),
		errors.Is(err, database.ErrBalanceNotFound),
		errors.Is(err, database.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, ledger.ErrBelowMinimumStake):
		writeError(w, http.StatusUnprocessableEntity, codeBelowMinimumStake, err.Error())
	case errors.Is(err, database.ErrInsufficientBalance):
		writeError(w, http.StatusUnprocessableEntity, codeInsufficientBalance, err.Error())
	case errors.Is(err, database.ErrInvalidTransition),
		errors.Is(err, database.ErrConcurrentModification):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	default:
		zap.L().Error("unhandled operation error",
			zap.String("operation", operation),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "malformed request body")
		return false
	}
	return true
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(operationDuration.WithLabelValues("deposit"))
	defer timer.ObserveDuration()

	userId, _ := userIdFromContext(r.Context())

	var req depositRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := s.ledger.Deposit(r.Context(), userId, req.Amount)
	if err != nil {
		writeOperationError(w, "deposit", err)
		return
	}

	operationsTotal.WithLabelValues("deposit", "ok").Inc()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(operationDuration.WithLabelValues("withdraw"))
	defer timer.ObserveDuration()

	userId, _ := userIdFromContext(r.Context())

	var req withdrawRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := s.ledger.Withdraw(r.Context(), userId, req.Amount)
	if err != nil {
		writeOperationError(w, "withdraw", err)
		return
	}

	operationsTotal.WithLabelValues("withdraw", "ok").Inc()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(operationDuration.WithLabelValues("stake"))
	defer timer.ObserveDuration()

	userId, _ := userIdFromContext(r.Context())

	var req stakeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := s.ledger.Stake(r.Context(), userId, req.PlanId, req.Amount)
	if err != nil {
		writeOperationError(w, "stake", err)
		return
	}

	operationsTotal.WithLabelValues("stake", "ok").Inc()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(operationDuration.WithLabelValues("unstake"))
	defer timer.ObserveDuration()

	userId, _ := userIdFromContext(r.Context())

	var req unstakeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := s.ledger.Unstake(r.Context(), userId, req.PositionId)
	if err != nil {
		writeOperationError(w, "unstake", err)
		return
	}

	operationsTotal.WithLabelValues("unstake", "ok").Inc()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	userId, _ := userIdFromContext(r.Context())

	balance, err := s.ledger.GetBalance(r.Context(), userId)
	if err != nil {
		writeOperationError(w, "balance", err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	userId, _ := userIdFromContext(r.Context())

	positions, err := s.ledger.ListPositions(r.Context(), userId, r.URL.Query().Get("status"))
	if err != nil {
		writeOperationError(w, "positions", err)
		return
	}

	writeJSON(w, http.StatusOK, positions)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userId, _ := userIdFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "limit must be an integer")
			return
		}
		limit = parsed
	}

	transactions, err := s.ledger.ListTransactions(r.Context(), userId, limit)
	if err != nil {
		writeOperationError(w, "transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.ListPlans())
}
