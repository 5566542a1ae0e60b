package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-staking-go/internal/ledger"
	"vault-staking-go/internal/models"
	"vault-staking-go/internal/plans"
)

// Compile-time check: *Service must satisfy the orchestrator's store contract.
var _ ledger.Store = (*Service)(nil)

type Service struct {
	db     *sql.DB
	ledger *StakingLedger
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db, ledger: NewStakingLedger(db)}
	if err := service.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	if err := service.ledger.InitSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize ledger schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema() error {
	schema := `
	-- Create users table
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	CREATE INDEX IF NOT EXISTS idx_users_active ON users(active);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Ledger convenience methods

func (s *Service) GetBalance(ctx context.Context, userId string) (*models.UserBalance, error) {
	return s.ledger.GetBalance(ctx, userId)
}

func (s *Service) ProvisionBalance(ctx context.Context, userId string) error {
	return s.ledger.ProvisionBalance(ctx, userId)
}

func (s *Service) Deposit(ctx context.Context, userId string, amount decimal.Decimal, now time.Time) (*models.UserBalance, *models.Transaction, error) {
	return s.ledger.Deposit(ctx, userId, amount, now)
}

func (s *Service) Withdraw(ctx context.Context, userId string, amount decimal.Decimal, now time.Time) (*models.UserBalance, *models.Transaction, error) {
	return s.ledger.Withdraw(ctx, userId, amount, now)
}

func (s *Service) Stake(ctx context.Context, userId string, plan plans.Plan, amount decimal.Decimal, now time.Time) (*models.UserBalance, *models.StakingPosition, error) {
	return s.ledger.Stake(ctx, userId, plan, amount, now)
}

func (s *Service) Unstake(ctx context.Context, userId, positionId string, now time.Time) (*models.UserBalance, *models.StakingPosition, error) {
	return s.ledger.Unstake(ctx, userId, positionId, now)
}

func (s *Service) AccruePosition(ctx context.Context, positionId string, now time.Time) (decimal.Decimal, error) {
	return s.ledger.AccruePosition(ctx, positionId, now)
}

func (s *Service) ListPositions(ctx context.Context, userId, status string) ([]models.StakingPosition, error) {
	return s.ledger.ListPositions(ctx, userId, status)
}

func (s *Service) ListActivePositions(ctx context.Context) ([]models.StakingPosition, error) {
	return s.ledger.ListActivePositions(ctx)
}

func (s *Service) GetPosition(ctx context.Context, positionId string) (*models.StakingPosition, error) {
	return s.ledger.GetPosition(ctx, positionId)
}

func (s *Service) ListTransactions(ctx context.Context, userId string, limit int) ([]models.Transaction, error) {
	return s.ledger.ListTransactions(ctx, userId, limit)
}
