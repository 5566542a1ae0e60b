package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-staking-go/internal/models"
)

// row is satisfied by both *sql.Row and *sql.Rows so balance scanning works
// inside and outside transactions.
type row interface {
	Scan(dest ...any) error
}

func scanBalance(r row) (*models.UserBalance, error) {
	var balance models.UserBalance
	var totalStr, availableStr, stakedStr, rewardsStr string

	err := r.Scan(&balance.Id, &balance.UserId, &totalStr, &availableStr, &stakedStr, &rewardsStr,
		&balance.Version, &balance.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if balance.TotalBalance, err = decimal.NewFromString(totalStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_balance %q: %w", totalStr, err)
	}
	if balance.AvailableBalance, err = decimal.NewFromString(availableStr); err != nil {
		return nil, fmt.Errorf("failed to parse available_balance %q: %w", availableStr, err)
	}
	if balance.StakedAmount, err = decimal.NewFromString(stakedStr); err != nil {
		return nil, fmt.Errorf("failed to parse staked_amount %q: %w", stakedStr, err)
	}
	if balance.TotalRewards, err = decimal.NewFromString(rewardsStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_rewards %q: %w", rewardsStr, err)
	}

	return &balance, nil
}

// GetBalance returns the current balance row for a user. A missing row is an
// error: balances are provisioned at signup, never lazily.
func (l *StakingLedger) GetBalance(ctx context.Context, userId string) (*models.UserBalance, error) {
	zap.L().Debug("Getting balance", zap.String("user_id", userId))

	balance, err := scanBalance(l.db.QueryRowContext(ctx, queryGetBalance, userId))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", ErrBalanceNotFound, userId)
	}
	if err != nil {
		zap.L().Error("Failed to get balance", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}

// ProvisionBalance creates the zero balance row for a new user. It is safe
// to call more than once; an existing row is left untouched.
func (l *StakingLedger) ProvisionBalance(ctx context.Context, userId string) error {
	_, err := l.db.ExecContext(ctx, queryInsertBalance, uuid.New().String(), userId)
	if err != nil {
		return fmt.Errorf("failed to provision balance for user %s: %w", userId, err)
	}
	return nil
}

// getBalanceTx reads the balance row inside an open transaction.
func getBalanceTx(ctx context.Context, tx *sql.Tx, userId string) (*models.UserBalance, error) {
	balance, err := scanBalance(tx.QueryRowContext(ctx, queryGetBalance, userId))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", ErrBalanceNotFound, userId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// updateBalanceTx writes the mutated balance fields with an optimistic
// version check. The per-user lock in the orchestrator should make version
// conflicts impossible; a conflict here means a writer slipped past it.
func updateBalanceTx(ctx context.Context, tx *sql.Tx, balance *models.UserBalance) error {
	result, err := tx.ExecContext(ctx, queryUpdateBalance,
		balance.TotalBalance.String(), balance.AvailableBalance.String(),
		balance.StakedAmount.String(), balance.TotalRewards.String(),
		balance.UserId, balance.Version)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("balance update failed - %w", ErrConcurrentModification)
	}

	return nil
}
