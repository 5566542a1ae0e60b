package reward

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestWholeDays(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    int64
	}{
		{"zero", 0, 0},
		{"under one day", 23 * time.Hour, 0},
		{"exactly one day", 24 * time.Hour, 1},
		{"one day and change", 24*time.Hour + 59*time.Minute, 1},
		{"ten days", 240 * time.Hour, 10},
		{"clock went backwards", -time.Hour, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WholeDays(base, base.Add(tc.elapsed)); got != tc.want {
				t.Errorf("WholeDays(%v) = %d, want %d", tc.elapsed, got, tc.want)
			}
		})
	}
}

func TestAccrued(t *testing.T) {
	amount := decimal.RequireFromString("500")
	rate := decimal.RequireFromString("0.001")

	// 500 * 0.001 * 10 = 5
	got := Accrued(amount, rate, 10)
	want := decimal.RequireFromString("5")
	if !got.Equal(want) {
		t.Errorf("Accrued = %s, want %s", got.String(), want.String())
	}

	if !Accrued(amount, rate, 0).Equal(decimal.Zero) {
		t.Errorf("Expected zero accrual for zero days")
	}
}

func TestRealize_EarlyWithdrawalPenalty(t *testing.T) {
	now := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	start := now.Add(-10 * 24 * time.Hour) // 10 of 30 lock days elapsed
	accrued := decimal.RequireFromString("10")

	realized, early := Realize(accrued, start, now, 30)
	if !early {
		t.Fatalf("Expected early withdrawal")
	}
	want := decimal.RequireFromString("9")
	if !realized.Equal(want) {
		t.Errorf("Realized = %s, want %s", realized.String(), want.String())
	}
}

func TestRealize_LockBoundaryIsInclusive(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	accrued := decimal.RequireFromString("10")

	// Exactly at lock expiry: matured, full rewards.
	start := now.Add(-30 * 24 * time.Hour)
	realized, early := Realize(accrued, start, now, 30)
	if early {
		t.Errorf("Expected matured at exact lock boundary")
	}
	if !realized.Equal(accrued) {
		t.Errorf("Realized = %s, want full %s", realized.String(), accrued.String())
	}

	// One tick before lock expiry: early, 90%.
	start = now.Add(-30*24*time.Hour + time.Nanosecond)
	realized, early = Realize(accrued, start, now, 30)
	if !early {
		t.Errorf("Expected early one tick before lock boundary")
	}
	want := decimal.RequireFromString("9")
	if !realized.Equal(want) {
		t.Errorf("Realized = %s, want %s", realized.String(), want.String())
	}
}

func TestRealize_AfterMaturity(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	start := now.Add(-45 * 24 * time.Hour)
	accrued := decimal.RequireFromString("13.5")

	realized, early := Realize(accrued, start, now, 30)
	if early {
		t.Errorf("Expected matured withdrawal")
	}
	if !realized.Equal(accrued) {
		t.Errorf("Realized = %s, want %s", realized.String(), accrued.String())
	}
}
