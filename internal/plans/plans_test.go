package plans

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

const testCatalog = `
plans:
  - id: flexible-30
    name: Flexible 30
    daily_rate: "0.001"
    min_stake_amount: "100"
    lock_period_days: 30
  - id: locked-90
    name: Locked 90
    daily_rate: "0.0025"
    min_stake_amount: "500"
    lock_period_days: 90
`

func TestParse_ValidCatalog(t *testing.T) {
	catalog, err := Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	plan, err := catalog.Get("flexible-30")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	expectedRate := decimal.RequireFromString("0.001")
	if !plan.DailyRate.Equal(expectedRate) {
		t.Errorf("Expected daily rate %s, got %s", expectedRate.String(), plan.DailyRate.String())
	}
	expectedMin := decimal.RequireFromString("100")
	if !plan.MinStakeAmount.Equal(expectedMin) {
		t.Errorf("Expected min stake %s, got %s", expectedMin.String(), plan.MinStakeAmount.String())
	}
	if plan.LockPeriodDays != 30 {
		t.Errorf("Expected lock period 30, got %d", plan.LockPeriodDays)
	}

	if got := len(catalog.List()); got != 2 {
		t.Errorf("Expected 2 plans, got %d", got)
	}
	// Catalog order must follow file order
	if catalog.List()[1].Id != "locked-90" {
		t.Errorf("Expected second plan locked-90, got %s", catalog.List()[1].Id)
	}
}

func TestGet_UnknownPlan(t *testing.T) {
	catalog, err := Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	_, err = catalog.Get("no-such-plan")
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("Expected ErrPlanNotFound, got: %v", err)
	}
}

func TestParse_RejectsInvalidEntries(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing id", "plans:\n  - name: X\n    daily_rate: \"0.001\"\n    min_stake_amount: \"1\"\n    lock_period_days: 30\n"},
		{"bad rate", "plans:\n  - id: p\n    name: X\n    daily_rate: \"abc\"\n    min_stake_amount: \"1\"\n    lock_period_days: 30\n"},
		{"negative rate", "plans:\n  - id: p\n    name: X\n    daily_rate: \"-0.001\"\n    min_stake_amount: \"1\"\n    lock_period_days: 30\n"},
		{"zero lock", "plans:\n  - id: p\n    name: X\n    daily_rate: \"0.001\"\n    min_stake_amount: \"1\"\n    lock_period_days: 0\n"},
		{"empty catalog", "plans: []\n"},
		{"duplicate id", "plans:\n  - id: p\n    name: X\n    daily_rate: \"0.001\"\n    min_stake_amount: \"1\"\n    lock_period_days: 30\n  - id: p\n    name: Y\n    daily_rate: \"0.002\"\n    min_stake_amount: \"1\"\n    lock_period_days: 60\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Errorf("Expected error for %s, got nil", tc.name)
			}
		})
	}
}
