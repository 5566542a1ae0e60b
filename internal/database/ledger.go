package database

import (
	"database/sql"
	"errors"
)

// Sentinel errors for ledger operations
var (
	ErrBalanceNotFound        = errors.New("balance not found")
	ErrPositionNotFound       = errors.New("position not found")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidTransition      = errors.New("invalid position transition")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserExists             = errors.New("user already exists")
)

// StakingLedger owns the balance, position and transaction tables. All
// balance mutations go through its atomic operations; the transaction table
// is append-only with this ledger as the single writer.
type StakingLedger struct {
	db *sql.DB
}

func NewStakingLedger(db *sql.DB) *StakingLedger {
	return &StakingLedger{
		db: db,
	}
}

func (l *StakingLedger) InitSchema() error {
	schema := `
	-- Balances Table (Current State - Hot Data)
	-- Monetary columns are TEXT holding exact decimal strings, never REAL.
	CREATE TABLE IF NOT EXISTS balances (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		total_balance TEXT NOT NULL DEFAULT '0',
		available_balance TEXT NOT NULL DEFAULT '0',
		staked_amount TEXT NOT NULL DEFAULT '0',
		total_rewards TEXT NOT NULL DEFAULT '0',
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Staking Positions Table
	CREATE TABLE IF NOT EXISTS positions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		plan_id TEXT NOT NULL,
		plan_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		daily_rate TEXT NOT NULL,
		lock_period_days INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		total_rewards TEXT NOT NULL DEFAULT '0',
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP,
		last_accrued_at TIMESTAMP NOT NULL,
		version INTEGER NOT NULL DEFAULT 1
	);

	-- Transactions Table (Audit Trail - Cold Data, append-only)
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'completed',
		position_id TEXT,
		reference TEXT,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Performance Indexes
	CREATE UNIQUE INDEX IF NOT EXISTS idx_balances_user_id ON balances(user_id);
	CREATE INDEX IF NOT EXISTS idx_positions_user_id ON positions(user_id);
	CREATE INDEX IF NOT EXISTS idx_positions_user_status ON positions(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_positions_status ON positions(status);
	CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at);
	CREATE INDEX IF NOT EXISTS idx_transactions_position_id ON transactions(position_id);
	`

	_, err := l.db.Exec(schema)
	return err
}
