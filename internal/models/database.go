package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position status values
const (
	PositionStatusActive    = "active"
	PositionStatusWithdrawn = "withdrawn"
)

// Transaction types
const (
	TransactionTypeDeposit  = "deposit"
	TransactionTypeWithdraw = "withdraw"
	TransactionTypeStake    = "stake"
	TransactionTypeUnstake  = "unstake"
	TransactionTypeReward   = "reward"
)

// User represents a user in the system
type User struct {
	Id        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// UserBalance represents current balance state (hot data).
// Invariant at rest: TotalBalance = AvailableBalance + StakedAmount.
type UserBalance struct {
	Id               string          `db:"id"`
	UserId           string          `db:"user_id"`
	TotalBalance     decimal.Decimal `db:"total_balance"`
	AvailableBalance decimal.Decimal `db:"available_balance"`
	StakedAmount     decimal.Decimal `db:"staked_amount"`
	TotalRewards     decimal.Decimal `db:"total_rewards"`
	Version          int64           `db:"version"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// StakingPosition represents one stake action with its own principal, rate
// and lock timer. Rate and lock period are snapshots taken from the plan at
// stake time so later plan edits never change an open position.
type StakingPosition struct {
	Id             string          `db:"id"`
	UserId         string          `db:"user_id"`
	PlanId         string          `db:"plan_id"`
	PlanName       string          `db:"plan_name"`
	Amount         decimal.Decimal `db:"amount"`
	DailyRate      decimal.Decimal `db:"daily_rate"`
	LockPeriodDays int             `db:"lock_period_days"`
	Status         string          `db:"status"`
	TotalRewards   decimal.Decimal `db:"total_rewards"`
	StartDate      time.Time       `db:"start_date"`
	EndDate        *time.Time      `db:"end_date"`
	LastAccruedAt  time.Time       `db:"last_accrued_at"`
	Version        int64           `db:"version"`
}

// Matured reports whether the position's lock period has elapsed at the
// given instant. The boundary is inclusive: exactly at lock expiry counts
// as matured.
func (p *StakingPosition) Matured(now time.Time) bool {
	lock := time.Duration(p.LockPeriodDays) * 24 * time.Hour
	return now.Sub(p.StartDate) >= lock
}

// Transaction represents immutable transaction history (cold data)
type Transaction struct {
	Id         string          `db:"id"`
	UserId     string          `db:"user_id"`
	Type       string          `db:"type"`
	Amount     decimal.Decimal `db:"amount"`
	Status     string          `db:"status"`
	PositionId string          `db:"position_id"`
	Reference  string          `db:"reference"`
	Metadata   string          `db:"metadata"`
	CreatedAt  time.Time       `db:"created_at"`
}
