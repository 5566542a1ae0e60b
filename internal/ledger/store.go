package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"vault-staking-go/internal/models"
	"vault-staking-go/internal/plans"
)

// Store defines the storage contract the orchestrator needs. The SQLite
// service satisfies it; each mutating call must be atomic on its own.
type Store interface {
	GetBalance(ctx context.Context, userId string) (*models.UserBalance, error)
	Deposit(ctx context.Context, userId string, amount decimal.Decimal, now time.Time) (*models.UserBalance, *models.Transaction, error)
	Withdraw(ctx context.Context, userId string, amount decimal.Decimal, now time.Time) (*models.UserBalance, *models.Transaction, error)
	Stake(ctx context.Context, userId string, plan plans.Plan, amount decimal.Decimal, now time.Time) (*models.UserBalance, *models.StakingPosition, error)
	Unstake(ctx context.Context, userId, positionId string, now time.Time) (*models.UserBalance, *models.StakingPosition, error)
	AccruePosition(ctx context.Context, positionId string, now time.Time) (decimal.Decimal, error)
	ListPositions(ctx context.Context, userId, status string) ([]models.StakingPosition, error)
	ListActivePositions(ctx context.Context) ([]models.StakingPosition, error)
	ListTransactions(ctx context.Context, userId string, limit int) ([]models.Transaction, error)
}
