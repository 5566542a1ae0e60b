package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-staking-go/internal/models"
)

// Deposit credits funds to a user's available balance.
func (s *Service) Deposit(ctx context.Context, userId string, amount decimal.Decimal) (*models.OperationResult, error) {
	if userId == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}

	lock := s.locks.lock(userId)
	defer lock.Unlock()

	balance, _, err := s.store.Deposit(ctx, userId, amount, s.now())
	if err != nil {
		zap.L().Error("Deposit failed",
			zap.String("user_id", userId),
			zap.String("amount", amount.String()),
			zap.Error(err))
		return nil, err
	}

	return &models.OperationResult{Balance: toBalanceSummary(balance)}, nil
}

// Withdraw debits funds from a user's available balance.
func (s *Service) Withdraw(ctx context.Context, userId string, amount decimal.Decimal) (*models.OperationResult, error) {
	if userId == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}

	lock := s.locks.lock(userId)
	defer lock.Unlock()

	balance, _, err := s.store.Withdraw(ctx, userId, amount, s.now())
	if err != nil {
		zap.L().Error("Withdrawal failed",
			zap.String("user_id", userId),
			zap.String("amount", amount.String()),
			zap.Error(err))
		return nil, err
	}

	return &models.OperationResult{Balance: toBalanceSummary(balance)}, nil
}
