package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSummary is the user-facing view of a balance row
type BalanceSummary struct {
	TotalBalance     decimal.Decimal `json:"total_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	StakedAmount     decimal.Decimal `json:"staked_amount"`
	TotalRewards     decimal.Decimal `json:"total_rewards"`
}

// PositionRecord is the user-facing view of a staking position
type PositionRecord struct {
	Id             string          `json:"id"`
	PlanId         string          `json:"plan_id"`
	PlanName       string          `json:"plan_name"`
	Amount         decimal.Decimal `json:"amount"`
	DailyRate      decimal.Decimal `json:"daily_rate"`
	LockPeriodDays int             `json:"lock_period_days"`
	Status         string          `json:"status"`
	TotalRewards   decimal.Decimal `json:"total_rewards"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
}

// TransactionRecord is the user-facing view of a ledger entry
type TransactionRecord struct {
	Id         string          `json:"id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	PositionId string          `json:"position_id,omitempty"`
	Metadata   string          `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OperationResult is returned by the four ledger operations
type OperationResult struct {
	Balance  BalanceSummary  `json:"balance"`
	Position *PositionRecord `json:"position,omitempty"`
}

// DistributionResult summarizes one reward distribution run
type DistributionResult struct {
	PositionsSeen    int             `json:"positions_seen"`
	PositionsUpdated int             `json:"positions_updated"`
	RewardsAccrued   decimal.Decimal `json:"rewards_accrued"`
}
