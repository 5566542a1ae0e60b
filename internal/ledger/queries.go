package ledger

import (
	"context"
	"fmt"

	"vault-staking-go/internal/models"
	"vault-staking-go/internal/plans"
)

// GetBalance returns the user's balance summary.
func (s *Service) GetBalance(ctx context.Context, userId string) (*models.BalanceSummary, error) {
	if userId == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}

	balance, err := s.store.GetBalance(ctx, userId)
	if err != nil {
		return nil, err
	}

	summary := toBalanceSummary(balance)
	return &summary, nil
}

// ListPositions returns the user's positions in creation order, optionally
// filtered by status.
func (s *Service) ListPositions(ctx context.Context, userId, status string) ([]models.PositionRecord, error) {
	if userId == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	switch status {
	case "", models.PositionStatusActive, models.PositionStatusWithdrawn:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	positions, err := s.store.ListPositions(ctx, userId, status)
	if err != nil {
		return nil, err
	}

	records := make([]models.PositionRecord, len(positions))
	for i := range positions {
		records[i] = toPositionRecord(&positions[i])
	}
	return records, nil
}

// ListTransactions returns the user's transaction history, most recent
// first. The limit is clamped by the store.
func (s *Service) ListTransactions(ctx context.Context, userId string, limit int) ([]models.TransactionRecord, error) {
	if userId == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}

	transactions, err := s.store.ListTransactions(ctx, userId, limit)
	if err != nil {
		return nil, err
	}

	records := make([]models.TransactionRecord, len(transactions))
	for i := range transactions {
		records[i] = toTransactionRecord(&transactions[i])
	}
	return records, nil
}

// ListPlans returns the staking plan catalog.
func (s *Service) ListPlans() []plans.Plan {
	return s.plans.List()
}
