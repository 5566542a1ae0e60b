package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vault-staking-go/internal/models"
)

const defaultDistributionWorkers = 4

// RunRewardDistribution walks every active position and advances its accrued
// rewards by the whole days elapsed since its last accrual. Each position is
// processed under its owner's user lock, so a distribution run never races a
// concurrent unstake. Re-running within the same day window credits nothing.
func (s *Service) RunRewardDistribution(ctx context.Context, workers int) (*models.DistributionResult, error) {
	if workers <= 0 {
		workers = defaultDistributionWorkers
	}

	positions, err := s.store.ListActivePositions(ctx)
	if err != nil {
		zap.L().Error("Failed to list active positions for distribution", zap.Error(err))
		return nil, err
	}

	result := &models.DistributionResult{
		PositionsSeen:  len(positions),
		RewardsAccrued: decimal.Zero,
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	now := s.now()
	for i := range positions {
		position := positions[i]
		g.Go(func() error {
			lock := s.locks.lock(position.UserId)
			defer lock.Unlock()

			accrued, err := s.store.AccruePosition(gctx, position.Id, now)
			if err != nil {
				// One bad position must not stall the batch; log and move on.
				zap.L().Error("Failed to accrue position",
					zap.String("position_id", position.Id),
					zap.String("user_id", position.UserId),
					zap.Error(err))
				return nil
			}
			if accrued.IsZero() {
				return nil
			}

			mu.Lock()
			result.PositionsUpdated++
			result.RewardsAccrued = result.RewardsAccrued.Add(accrued)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("Reward distribution completed",
		zap.Int("positions_seen", result.PositionsSeen),
		zap.Int("positions_updated", result.PositionsUpdated),
		zap.String("rewards_accrued", result.RewardsAccrued.String()))

	return result, nil
}
