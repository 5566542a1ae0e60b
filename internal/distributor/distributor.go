// Package distributor runs the periodic reward distribution job. It wakes on
// a fixed interval and asks the ledger to accrue rewards on every active
// staking position.
package distributor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vault-staking-go/internal/ledger"
	"vault-staking-go/internal/models"
)

// DistributorConfig contains configuration for Distributor
type DistributorConfig struct {
	LedgerService *ledger.Service
	Interval      time.Duration
	Workers       int
}

// Distributor drives reward accrual on a timer.
type Distributor struct {
	ledgerService *ledger.Service
	interval      time.Duration
	workers       int

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewDistributor creates a new reward distributor
func NewDistributor(cfg DistributorConfig) *Distributor {
	return &Distributor{
		ledgerService: cfg.LedgerService,
		interval:      cfg.Interval,
		workers:       cfg.Workers,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}
}

// Start begins the distribution loop
func (d *Distributor) Start(ctx context.Context) {
	zap.L().Info("Starting reward distributor",
		zap.Duration("interval", d.interval),
		zap.Int("workers", d.workers))

	go d.runLoop(ctx)
}

// Stop gracefully stops the distributor
func (d *Distributor) Stop() {
	zap.L().Info("Stopping reward distributor")
	close(d.stopChan)
	<-d.doneChan
	zap.L().Info("Reward distributor stopped")
}

// RunOnce performs a single distribution pass.
func (d *Distributor) RunOnce(ctx context.Context) (*models.DistributionResult, error) {
	return d.ledgerService.RunRewardDistribution(ctx, d.workers)
}

// runLoop runs the main distribution loop. A pass is executed immediately on
// startup so a restarted daemon never waits a full interval to catch up.
func (d *Distributor) runLoop(ctx context.Context) {
	defer close(d.doneChan)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.distribute(ctx)

	for {
		select {
		case <-ticker.C:
			d.distribute(ctx)
		case <-d.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (d *Distributor) distribute(ctx context.Context) {
	start := time.Now()

	result, err := d.ledgerService.RunRewardDistribution(ctx, d.workers)
	if err != nil {
		zap.L().Error("Reward distribution pass failed", zap.Error(err))
		return
	}

	zap.L().Info("Reward distribution pass completed",
		zap.Int("positions_seen", result.PositionsSeen),
		zap.Int("positions_updated", result.PositionsUpdated),
		zap.String("rewards_accrued", result.RewardsAccrued.String()),
		zap.Duration("elapsed", time.Since(start)))
}
