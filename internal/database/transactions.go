package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-staking-go/internal/models"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 100
)

// ListTransactions returns a user's transaction history, most recent first.
// A non-positive limit falls back to the default; oversized limits clamp.
func (l *StakingLedger) ListTransactions(ctx context.Context, userId string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}

	zap.L().Debug("Listing transactions",
		zap.String("user_id", userId),
		zap.Int("limit", limit))

	rows, err := l.db.QueryContext(ctx, queryListTransactions, userId, limit)
	if err != nil {
		zap.L().Error("Failed to list transactions", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var transactions []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		var amountStr string
		var positionId, reference, metadata sql.NullString

		err := rows.Scan(&txn.Id, &txn.UserId, &txn.Type, &amountStr, &txn.Status,
			&positionId, &reference, &metadata, &txn.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
		}
		txn.PositionId = positionId.String
		txn.Reference = reference.String
		txn.Metadata = metadata.String

		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during transaction row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}
