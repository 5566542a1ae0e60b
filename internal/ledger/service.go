// Package ledger is the staking orchestrator: it validates requests,
// serializes all operations for a given user and composes the balance store,
// position ledger and reward engine into the four user-facing operations.
package ledger

import (
	"errors"
	"sync"
	"time"

	"vault-staking-go/internal/models"
	"vault-staking-go/internal/plans"
)

// Sentinel errors for request validation. Storage-level failures carry the
// database package's sentinels instead.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidStatus     = errors.New("invalid position status filter")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrBelowMinimumStake = errors.New("stake amount below plan minimum")
)

// Service orchestrates the staking ledger.
type Service struct {
	store Store
	plans *plans.Catalog
	locks userLocks

	// now is the clock; swapped out in tests.
	now func() time.Time
}

func NewService(store Store, catalog *plans.Catalog) *Service {
	return &Service{
		store: store,
		plans: catalog,
		now:   time.Now,
	}
}

// userLocks serializes ledger operations per user. Operations on different
// users never contend.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (u *userLocks) lock(userId string) *sync.Mutex {
	u.mu.Lock()
	if u.locks == nil {
		u.locks = make(map[string]*sync.Mutex)
	}
	l, ok := u.locks[userId]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userId] = l
	}
	u.mu.Unlock()

	l.Lock()
	return l
}

func toBalanceSummary(balance *models.UserBalance) models.BalanceSummary {
	return models.BalanceSummary{
		TotalBalance:     balance.TotalBalance,
		AvailableBalance: balance.AvailableBalance,
		StakedAmount:     balance.StakedAmount,
		TotalRewards:     balance.TotalRewards,
	}
}

func toPositionRecord(position *models.StakingPosition) models.PositionRecord {
	return models.PositionRecord{
		Id:             position.Id,
		PlanId:         position.PlanId,
		PlanName:       position.PlanName,
		Amount:         position.Amount,
		DailyRate:      position.DailyRate,
		LockPeriodDays: position.LockPeriodDays,
		Status:         position.Status,
		TotalRewards:   position.TotalRewards,
		StartDate:      position.StartDate,
		EndDate:        position.EndDate,
	}
}

func toTransactionRecord(txn *models.Transaction) models.TransactionRecord {
	return models.TransactionRecord{
		Id:         txn.Id,
		Type:       txn.Type,
		Amount:     txn.Amount,
		Status:     txn.Status,
		PositionId: txn.PositionId,
		Metadata:   txn.Metadata,
		CreatedAt:  txn.CreatedAt,
	}
}
