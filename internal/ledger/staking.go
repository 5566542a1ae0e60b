package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-staking-go/internal/models"
)

// Stake locks available funds into a new position on the given plan.
func (s *Service) Stake(ctx context.Context, userId, planId string, amount decimal.Decimal) (*models.OperationResult, error) {
	if userId == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}

	plan, err := s.plans.Get(planId)
	if err != nil {
		return nil, err
	}

	if amount.LessThan(plan.MinStakeAmount) {
		return nil, fmt.Errorf("%w: plan %s requires at least %s",
			ErrBelowMinimumStake, plan.Name, plan.MinStakeAmount.String())
	}

	lock := s.locks.lock(userId)
	defer lock.Unlock()

	balance, position, err := s.store.Stake(ctx, userId, plan, amount, s.now())
	if err != nil {
		zap.L().Error("Stake failed",
			zap.String("user_id", userId),
			zap.String("plan_id", planId),
			zap.String("amount", amount.String()),
			zap.Error(err))
		return nil, err
	}

	record := toPositionRecord(position)
	return &models.OperationResult{
		Balance:  toBalanceSummary(balance),
		Position: &record,
	}, nil
}

// Unstake closes an active position, realizing its rewards through the
// early-withdrawal policy and returning principal plus rewards to the
// available balance.
func (s *Service) Unstake(ctx context.Context, userId, positionId string) (*models.OperationResult, error) {
	if userId == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if positionId == "" {
		return nil, fmt.Errorf("%w: position id is required", ErrInvalidRequest)
	}

	lock := s.locks.lock(userId)
	defer lock.Unlock()

	balance, position, err := s.store.Unstake(ctx, userId, positionId, s.now())
	if err != nil {
		zap.L().Error("Unstake failed",
			zap.String("user_id", userId),
			zap.String("position_id", positionId),
			zap.Error(err))
		return nil, err
	}

	record := toPositionRecord(position)
	return &models.OperationResult{
		Balance:  toBalanceSummary(balance),
		Position: &record,
	}, nil
}
