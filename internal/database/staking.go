package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-staking-go/internal/models"
	"vault-staking-go/internal/plans"
	"vault-staking-go/internal/reward"
)

// stakeMetadata is attached to stake transactions.
type stakeMetadata struct {
	PlanId   string `json:"plan_id"`
	PlanName string `json:"plan_name"`
}

// unstakeMetadata is attached to unstake transactions.
type unstakeMetadata struct {
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	Rewards         decimal.Decimal `json:"rewards"`
	EarlyWithdrawal bool            `json:"early_withdrawal"`
}

// rewardMetadata is attached to reward accrual transactions.
type rewardMetadata struct {
	Days      int64           `json:"days"`
	DailyRate decimal.Decimal `json:"daily_rate"`
}

func marshalMetadata(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}
	return string(data), nil
}

// appendTransactionTx writes one audit record inside an open transaction.
// Records are never updated after this insert.
func appendTransactionTx(ctx context.Context, tx *sql.Tx, txn *models.Transaction) error {
	_, err := tx.ExecContext(ctx, queryInsertTransaction,
		txn.Id, txn.UserId, txn.Type, txn.Amount.String(), txn.Status,
		txn.PositionId, txn.Reference, txn.Metadata, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func newTransaction(userId, txType string, amount decimal.Decimal, positionId, metadata string, now time.Time) *models.Transaction {
	return &models.Transaction{
		Id:         uuid.New().String(),
		UserId:     userId,
		Type:       txType,
		Amount:     amount,
		Status:     "completed",
		PositionId: positionId,
		Metadata:   metadata,
		CreatedAt:  now,
	}
}

// Deposit atomically credits a user's total and available balance and
// records a deposit transaction.
func (l *StakingLedger) Deposit(ctx context.Context, userId string, amount decimal.Decimal, now time.Time) (*models.UserBalance, *models.Transaction, error) {
	zap.L().Info("Processing deposit",
		zap.String("user_id", userId),
		zap.String("amount", amount.String()))

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := getBalanceTx(ctx, tx, userId)
	if err != nil {
		return nil, nil, err
	}

	balance.TotalBalance = balance.TotalBalance.Add(amount)
	balance.AvailableBalance = balance.AvailableBalance.Add(amount)

	txn := newTransaction(userId, models.TransactionTypeDeposit, amount, "", "", now)
	if err := appendTransactionTx(ctx, tx, txn); err != nil {
		return nil, nil, err
	}

	if err := updateBalanceTx(ctx, tx, balance); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	balance.Version++
	zap.L().Info("Deposit processed",
		zap.String("user_id", userId),
		zap.String("amount", amount.String()),
		zap.String("available", balance.AvailableBalance.String()))

	return balance, txn, nil
}

// Withdraw atomically debits a user's total and available balance, failing
// with ErrInsufficientBalance if the available balance cannot cover it.
func (l *StakingLedger) Withdraw(ctx context.Context, userId string, amount decimal.Decimal, now time.Time) (*models.UserBalance, *models.Transaction, error) {
	zap.L().Info("Processing withdrawal",
		zap.String("user_id", userId),
		zap.String("amount", amount.String()))

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := getBalanceTx(ctx, tx, userId)
	if err != nil {
		return nil, nil, err
	}

	if amount.GreaterThan(balance.AvailableBalance) {
		return nil, nil, fmt.Errorf("%w: requested %s, available %s",
			ErrInsufficientBalance, amount.String(), balance.AvailableBalance.String())
	}

	balance.TotalBalance = balance.TotalBalance.Sub(amount)
	balance.AvailableBalance = balance.AvailableBalance.Sub(amount)

	txn := newTransaction(userId, models.TransactionTypeWithdraw, amount, "", "", now)
	if err := appendTransactionTx(ctx, tx, txn); err != nil {
		return nil, nil, err
	}

	if err := updateBalanceTx(ctx, tx, balance); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	balance.Version++
	zap.L().Info("Withdrawal processed",
		zap.String("user_id", userId),
		zap.String("amount", amount.String()),
		zap.String("available", balance.AvailableBalance.String()))

	return balance, txn, nil
}

// Stake atomically locks available funds into a new position. The plan's
// rate and lock period are copied onto the position so later catalog edits
// never change an open stake.
func (l *StakingLedger) Stake(ctx context.Context, userId string, plan plans.Plan, amount decimal.Decimal, now time.Time) (*models.UserBalance, *models.StakingPosition, error) {
	zap.L().Info("Processing stake",
		zap.String("user_id", userId),
		zap.String("plan_id", plan.Id),
		zap.String("amount", amount.String()))

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := getBalanceTx(ctx, tx, userId)
	if err != nil {
		return nil, nil, err
	}

	if amount.GreaterThan(balance.AvailableBalance) {
		return nil, nil, fmt.Errorf("%w: requested %s, available %s",
			ErrInsufficientBalance, amount.String(), balance.AvailableBalance.String())
	}

	position := &models.StakingPosition{
		Id:             uuid.New().String(),
		UserId:         userId,
		PlanId:         plan.Id,
		PlanName:       plan.Name,
		Amount:         amount,
		DailyRate:      plan.DailyRate,
		LockPeriodDays: plan.LockPeriodDays,
		Status:         models.PositionStatusActive,
		TotalRewards:   decimal.Zero,
		StartDate:      now,
		LastAccruedAt:  now,
		Version:        1,
	}

	_, err = tx.ExecContext(ctx, queryInsertPosition,
		position.Id, position.UserId, position.PlanId, position.PlanName,
		position.Amount.String(), position.DailyRate.String(), position.LockPeriodDays,
		position.Status, position.TotalRewards.String(), position.StartDate, position.LastAccruedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert position: %w", err)
	}

	balance.AvailableBalance = balance.AvailableBalance.Sub(amount)
	balance.StakedAmount = balance.StakedAmount.Add(amount)

	metadata, err := marshalMetadata(stakeMetadata{PlanId: plan.Id, PlanName: plan.Name})
	if err != nil {
		return nil, nil, err
	}

	txn := newTransaction(userId, models.TransactionTypeStake, amount, position.Id, metadata, now)
	if err := appendTransactionTx(ctx, tx, txn); err != nil {
		return nil, nil, err
	}

	if err := updateBalanceTx(ctx, tx, balance); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	balance.Version++
	zap.L().Info("Stake processed",
		zap.String("user_id", userId),
		zap.String("position_id", position.Id),
		zap.String("amount", amount.String()),
		zap.String("staked", balance.StakedAmount.String()))

	return balance, position, nil
}

// Unstake atomically transitions an active position to withdrawn, realizes
// its rewards through the early-withdrawal policy and credits principal plus
// realized rewards back to the available balance. The position transition,
// the balance credit and the audit record are one database transaction, so a
// missing balance row rolls the transition back instead of stranding a
// withdrawn position with no credit.
func (l *StakingLedger) Unstake(ctx context.Context, userId, positionId string, now time.Time) (*models.UserBalance, *models.StakingPosition, error) {
	zap.L().Info("Processing unstake",
		zap.String("user_id", userId),
		zap.String("position_id", positionId))

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	position, err := getActivePositionTx(ctx, tx, userId, positionId)
	if err != nil {
		return nil, nil, err
	}

	realized, early := reward.Realize(position.TotalRewards, position.StartDate, now, position.LockPeriodDays)

	result, err := tx.ExecContext(ctx, queryWithdrawPosition,
		now, realized.String(), position.Id, position.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to withdraw position: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, nil, fmt.Errorf("position update failed - %w", ErrConcurrentModification)
	}

	balance, err := getBalanceTx(ctx, tx, userId)
	if err != nil {
		return nil, nil, err
	}

	balance.AvailableBalance = balance.AvailableBalance.Add(position.Amount).Add(realized)
	balance.StakedAmount = balance.StakedAmount.Sub(position.Amount)
	balance.TotalBalance = balance.TotalBalance.Add(realized)
	balance.TotalRewards = balance.TotalRewards.Add(realized)

	metadata, err := marshalMetadata(unstakeMetadata{
		OriginalAmount:  position.Amount,
		Rewards:         realized,
		EarlyWithdrawal: early,
	})
	if err != nil {
		return nil, nil, err
	}

	txn := newTransaction(userId, models.TransactionTypeUnstake, position.Amount, position.Id, metadata, now)
	if err := appendTransactionTx(ctx, tx, txn); err != nil {
		return nil, nil, err
	}

	if err := updateBalanceTx(ctx, tx, balance); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	balance.Version++
	endDate := now
	position.Status = models.PositionStatusWithdrawn
	position.EndDate = &endDate
	position.TotalRewards = realized
	position.Version++

	zap.L().Info("Unstake processed",
		zap.String("user_id", userId),
		zap.String("position_id", position.Id),
		zap.String("principal", position.Amount.String()),
		zap.String("rewards", realized.String()),
		zap.Bool("early_withdrawal", early))

	return balance, position, nil
}

// AccruePosition advances a position's accrued rewards by the whole days
// elapsed since its last accrual, recording a reward transaction. Running it
// again within the same day window credits nothing, which makes the batch
// job idempotent per tick. The last-accrual timestamp advances by exactly
// the credited days so partial days are never lost.
func (l *StakingLedger) AccruePosition(ctx context.Context, positionId string, now time.Time) (decimal.Decimal, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	position, err := scanPosition(tx.QueryRowContext(ctx, queryGetPositionById, positionId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrPositionNotFound, positionId)
		}
		return decimal.Zero, fmt.Errorf("failed to get position: %w", err)
	}

	// Unstaked concurrently between listing and accrual; nothing to do.
	if position.Status != models.PositionStatusActive {
		return decimal.Zero, nil
	}

	days := reward.WholeDays(position.LastAccruedAt, now)
	if days == 0 {
		return decimal.Zero, nil
	}

	accrued := reward.Accrued(position.Amount, position.DailyRate, days)
	newTotal := position.TotalRewards.Add(accrued)
	newLastAccruedAt := position.LastAccruedAt.Add(time.Duration(days) * 24 * time.Hour)

	result, err := tx.ExecContext(ctx, queryAccruePosition,
		newTotal.String(), newLastAccruedAt, position.Id, position.Version)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to accrue position: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return decimal.Zero, fmt.Errorf("accrual update failed - %w", ErrConcurrentModification)
	}

	metadata, err := marshalMetadata(rewardMetadata{Days: days, DailyRate: position.DailyRate})
	if err != nil {
		return decimal.Zero, err
	}

	txn := newTransaction(position.UserId, models.TransactionTypeReward, accrued, position.Id, metadata, now)
	if err := appendTransactionTx(ctx, tx, txn); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Debug("Accrued position rewards",
		zap.String("position_id", position.Id),
		zap.String("user_id", position.UserId),
		zap.Int64("days", days),
		zap.String("accrued", accrued.String()))

	return accrued, nil
}
