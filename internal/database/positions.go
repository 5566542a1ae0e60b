package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-staking-go/internal/models"
)

func scanPosition(r row) (*models.StakingPosition, error) {
	var position models.StakingPosition
	var amountStr, rateStr, rewardsStr string
	var endDate sql.NullTime

	err := r.Scan(&position.Id, &position.UserId, &position.PlanId, &position.PlanName,
		&amountStr, &rateStr, &position.LockPeriodDays, &position.Status, &rewardsStr,
		&position.StartDate, &endDate, &position.LastAccruedAt, &position.Version)
	if err != nil {
		return nil, err
	}

	if position.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
	}
	if position.DailyRate, err = decimal.NewFromString(rateStr); err != nil {
		return nil, fmt.Errorf("failed to parse daily_rate %q: %w", rateStr, err)
	}
	if position.TotalRewards, err = decimal.NewFromString(rewardsStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_rewards %q: %w", rewardsStr, err)
	}
	if endDate.Valid {
		t := endDate.Time
		position.EndDate = &t
	}

	return &position, nil
}

func scanPositions(rows *sql.Rows) ([]models.StakingPosition, error) {
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var positions []models.StakingPosition
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, *position)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during position row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating position rows: %w", err)
	}

	return positions, nil
}

// ListPositions returns a user's positions ordered by creation time,
// optionally filtered by status.
func (l *StakingLedger) ListPositions(ctx context.Context, userId, status string) ([]models.StakingPosition, error) {
	zap.L().Debug("Listing positions", zap.String("user_id", userId), zap.String("status", status))

	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = l.db.QueryContext(ctx, queryListUserPositions, userId)
	} else {
		rows, err = l.db.QueryContext(ctx, queryListUserPositionsByStatus, userId, status)
	}
	if err != nil {
		zap.L().Error("Failed to list positions", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	return scanPositions(rows)
}

// ListActivePositions returns every active position across all users, in
// creation order. Used by the reward distribution job.
func (l *StakingLedger) ListActivePositions(ctx context.Context) ([]models.StakingPosition, error) {
	rows, err := l.db.QueryContext(ctx, queryListAllActivePositions)
	if err != nil {
		zap.L().Error("Failed to list active positions", zap.Error(err))
		return nil, fmt.Errorf("failed to list active positions: %w", err)
	}

	return scanPositions(rows)
}

// GetPosition returns a single position by id, regardless of status.
func (l *StakingLedger) GetPosition(ctx context.Context, positionId string) (*models.StakingPosition, error) {
	position, err := scanPosition(l.db.QueryRowContext(ctx, queryGetPositionById, positionId))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPositionNotFound, positionId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return position, nil
}

// getActivePositionTx reads an active position belonging to the user inside
// an open transaction. A withdrawn position and a missing position are
// surfaced identically.
func getActivePositionTx(ctx context.Context, tx *sql.Tx, userId, positionId string) (*models.StakingPosition, error) {
	position, err := scanPosition(tx.QueryRowContext(ctx, queryGetActivePosition, positionId, userId))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPositionNotFound, positionId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return position, nil
}
