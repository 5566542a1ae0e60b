package database

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"vault-staking-go/internal/models"
)

func TestListTransactions_MostRecentFirst(t *testing.T) {
	ledger, cleanup := setupLedgerTest(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now().UTC()

	if _, _, err := ledger.Deposit(ctx, "user1", decimal.RequireFromString("1000"), base); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if _, _, err := ledger.Withdraw(ctx, "user1", decimal.RequireFromString("100"), base.Add(time.Second)); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if _, _, err := ledger.Deposit(ctx, "user1", decimal.RequireFromString("50"), base.Add(2*time.Second)); err != nil {
		t.Fatalf("Second deposit failed: %v", err)
	}

	transactions, err := ledger.ListTransactions(ctx, "user1", 0)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}

	if len(transactions) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(transactions))
	}
	expectedOrder := []string{
		models.TransactionTypeDeposit,
		models.TransactionTypeWithdraw,
		models.TransactionTypeDeposit,
	}
	for i, want := range []string{expectedOrder[2], expectedOrder[1], expectedOrder[0]} {
		if transactions[i].Type != want {
			t.Errorf("Position %d: expected type %s, got %s", i, want, transactions[i].Type)
		}
	}
	if !transactions[0].Amount.Equal(decimal.RequireFromString("50")) {
		t.Errorf("Expected newest transaction amount 50, got %s", transactions[0].Amount.String())
	}
}

func TestListTransactions_LimitClamping(t *testing.T) {
	ledger, cleanup := setupLedgerTest(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		if _, _, err := ledger.Deposit(ctx, "user1", decimal.RequireFromString("10"), base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("Deposit %d failed: %v", i, err)
		}
	}

	transactions, err := ledger.ListTransactions(ctx, "user1", 2)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(transactions) != 2 {
		t.Errorf("Expected 2 transactions with limit 2, got %d", len(transactions))
	}

	// Negative limits fall back to the default rather than failing.
	transactions, err = ledger.ListTransactions(ctx, "user1", -1)
	if err != nil {
		t.Fatalf("ListTransactions with negative limit failed: %v", err)
	}
	if len(transactions) != 5 {
		t.Errorf("Expected all 5 transactions with default limit, got %d", len(transactions))
	}
}

func TestListTransactions_ScopedToUser(t *testing.T) {
	ledger, cleanup := setupLedgerTest(t)
	defer cleanup()

	ctx := context.Background()
	if err := ledger.ProvisionBalance(ctx, "user2"); err != nil {
		t.Fatalf("ProvisionBalance failed: %v", err)
	}

	now := time.Now().UTC()
	if _, _, err := ledger.Deposit(ctx, "user1", decimal.RequireFromString("100"), now); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if _, _, err := ledger.Deposit(ctx, "user2", decimal.RequireFromString("200"), now); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	transactions, err := ledger.ListTransactions(ctx, "user2", 0)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("Expected 1 transaction for user2, got %d", len(transactions))
	}
	if !transactions[0].Amount.Equal(decimal.RequireFromString("200")) {
		t.Errorf("Expected amount 200, got %s", transactions[0].Amount.String())
	}
}
