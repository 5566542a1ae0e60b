package ledger_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vault-staking-go/internal/database"
	"vault-staking-go/internal/ledger"
	"vault-staking-go/internal/models"
	"vault-staking-go/internal/plans"
)

func setupIntegrationTest(t *testing.T) (*ledger.Service, *database.Service) {
	t.Helper()

	dbService, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:            filepath.Join(t.TempDir(), "staking.db"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
		PingTimeout:     5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(dbService.Close)

	catalog, err := plans.Parse([]byte(`
plans:
  - id: flexible-30
    name: Flexible 30
    daily_rate: "0.001"
    min_stake_amount: "100"
    lock_period_days: 30
`))
	if err != nil {
		t.Fatalf("Failed to parse catalog: %v", err)
	}

	if _, err := dbService.CreateUser(context.Background(), "user1", "Test User", "test@example.com"); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	return ledger.NewService(dbService, catalog), dbService
}

func TestStakeBelowMinimum_LeavesBalanceUntouched(t *testing.T) {
	service, _ := setupIntegrationTest(t)
	ctx := context.Background()

	if _, err := service.Deposit(ctx, "user1", decimal.RequireFromString("1000")); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	_, err := service.Stake(ctx, "user1", "flexible-30", decimal.RequireFromString("50"))
	if !errors.Is(err, ledger.ErrBelowMinimumStake) {
		t.Fatalf("Expected ErrBelowMinimumStake, got: %v", err)
	}

	balance, err := service.GetBalance(ctx, "user1")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.AvailableBalance.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("Expected available 1000, got %s", balance.AvailableBalance.String())
	}
	if !balance.StakedAmount.Equal(decimal.Zero) {
		t.Errorf("Expected staked 0, got %s", balance.StakedAmount.String())
	}
}

func TestDepositStakeUnstakeFlow(t *testing.T) {
	service, _ := setupIntegrationTest(t)
	ctx := context.Background()

	if _, err := service.Deposit(ctx, "user1", decimal.RequireFromString("1000")); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	stakeResult, err := service.Stake(ctx, "user1", "flexible-30", decimal.RequireFromString("500"))
	if err != nil {
		t.Fatalf("Stake failed: %v", err)
	}
	if stakeResult.Position == nil {
		t.Fatalf("Expected position in stake result")
	}
	if !stakeResult.Balance.AvailableBalance.Equal(decimal.RequireFromString("500")) {
		t.Errorf("Expected available 500 after stake, got %s", stakeResult.Balance.AvailableBalance.String())
	}
	if !stakeResult.Balance.StakedAmount.Equal(decimal.RequireFromString("500")) {
		t.Errorf("Expected staked 500, got %s", stakeResult.Balance.StakedAmount.String())
	}

	// Unstaking immediately is an early withdrawal with zero accrued rewards:
	// principal comes back intact.
	unstakeResult, err := service.Unstake(ctx, "user1", stakeResult.Position.Id)
	if err != nil {
		t.Fatalf("Unstake failed: %v", err)
	}
	if !unstakeResult.Balance.AvailableBalance.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("Expected available 1000 after unstake, got %s", unstakeResult.Balance.AvailableBalance.String())
	}
	if unstakeResult.Position.Status != models.PositionStatusWithdrawn {
		t.Errorf("Expected position withdrawn, got %s", unstakeResult.Position.Status)
	}

	// Full audit trail: deposit, stake, unstake, most recent first.
	transactions, err := service.ListTransactions(ctx, "user1", 0)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(transactions))
	}
	wantTypes := []string{
		models.TransactionTypeUnstake,
		models.TransactionTypeStake,
		models.TransactionTypeDeposit,
	}
	for i, want := range wantTypes {
		if transactions[i].Type != want {
			t.Errorf("Transaction %d: expected %s, got %s", i, want, transactions[i].Type)
		}
	}
}

func TestConcurrentStakes_ExactlyOneSucceeds(t *testing.T) {
	service, _ := setupIntegrationTest(t)
	ctx := context.Background()

	if _, err := service.Deposit(ctx, "user1", decimal.RequireFromString("1000")); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Stake(ctx, "user1", "flexible-30", decimal.RequireFromString("1000"))
		}(i)
	}
	wg.Wait()

	var successes, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, database.ErrInsufficientBalance):
			insufficient++
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("Expected exactly 1 successful stake, got %d", successes)
	}
	if insufficient != n-1 {
		t.Errorf("Expected %d insufficient balance failures, got %d", n-1, insufficient)
	}

	// Balance never goes negative and the invariant holds.
	balance, err := service.GetBalance(ctx, "user1")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance.AvailableBalance.IsNegative() {
		t.Errorf("Available balance went negative: %s", balance.AvailableBalance.String())
	}
	if !balance.TotalBalance.Equal(balance.AvailableBalance.Add(balance.StakedAmount)) {
		t.Errorf("Invariant violated: total %s != available %s + staked %s",
			balance.TotalBalance.String(), balance.AvailableBalance.String(), balance.StakedAmount.String())
	}
	if !balance.StakedAmount.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("Expected staked 1000, got %s", balance.StakedAmount.String())
	}
}

func TestRunRewardDistribution_NoElapsedDays(t *testing.T) {
	service, _ := setupIntegrationTest(t)
	ctx := context.Background()

	if _, err := service.Deposit(ctx, "user1", decimal.RequireFromString("1000")); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if _, err := service.Stake(ctx, "user1", "flexible-30", decimal.RequireFromString("500")); err != nil {
		t.Fatalf("Stake failed: %v", err)
	}

	// A position staked moments ago has no whole day to credit.
	result, err := service.RunRewardDistribution(ctx, 2)
	if err != nil {
		t.Fatalf("RunRewardDistribution failed: %v", err)
	}
	if result.PositionsSeen != 1 {
		t.Errorf("Expected 1 position seen, got %d", result.PositionsSeen)
	}
	if result.PositionsUpdated != 0 {
		t.Errorf("Expected 0 positions updated, got %d", result.PositionsUpdated)
	}
}
