package distributor

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vault-staking-go/internal/database"
	"vault-staking-go/internal/ledger"
	"vault-staking-go/internal/models"
	"vault-staking-go/internal/plans"
)

const testPlansYAML = `
plans:
  - id: flexible-30
    name: Flexible 30
    daily_rate: "0.001"
    min_stake_amount: "100"
    lock_period_days: 30
`

func setupDistributorTest(t *testing.T) (*Distributor, *ledger.Service) {
	t.Helper()

	ctx := context.Background()
	store, err := database.NewService(ctx, models.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "staking.db"),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create database service: %v", err)
	}
	t.Cleanup(store.Close)

	if _, err := store.CreateUser(ctx, "user1", "Test User", "user1@example.com"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	catalog, err := plans.Parse([]byte(testPlansYAML))
	if err != nil {
		t.Fatalf("failed to parse plan catalog: %v", err)
	}

	ledgerService := ledger.NewService(store, catalog)
	return NewDistributor(DistributorConfig{
		LedgerService: ledgerService,
		Interval:      time.Hour,
		Workers:       2,
	}), ledgerService
}

func TestRunOnce(t *testing.T) {
	dist, ledgerService := setupDistributorTest(t)
	ctx := context.Background()

	if _, err := ledgerService.Deposit(ctx, "user1", decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := ledgerService.Stake(ctx, "user1", "flexible-30", decimal.NewFromInt(500)); err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	// No whole day has elapsed since the stake, so the pass sees the
	// position but accrues nothing.
	result, err := dist.RunOnce(ctx)
	if err != nil {
		t.Fatalf("distribution pass failed: %v", err)
	}
	if result.PositionsSeen != 1 {
		t.Errorf("expected 1 position seen, got %d", result.PositionsSeen)
	}
	if result.PositionsUpdated != 0 {
		t.Errorf("expected 0 positions updated, got %d", result.PositionsUpdated)
	}
	if !result.RewardsAccrued.IsZero() {
		t.Errorf("expected zero rewards accrued, got %s", result.RewardsAccrued)
	}
}

func TestStartStop(t *testing.T) {
	dist, _ := setupDistributorTest(t)

	dist.Start(context.Background())
	dist.Stop()
}
