// Package reward implements the staking reward policy as pure functions of
// position data and clock readings, so the live unstake path and the batch
// distribution job share one accrual model.
package reward

import (
	"time"

	"github.com/shopspring/decimal"
)

const hoursPerDay = 24

// earlyWithdrawalFactor is applied to accrued rewards when a position is
// unstaked before its lock period elapses. Principal is never penalized.
var earlyWithdrawalFactor = decimal.RequireFromString("0.9")

// WholeDays returns the number of complete 24h periods between from and to.
// Partial days do not accrue; they are carried forward to the next run.
func WholeDays(from, to time.Time) int64 {
	if !to.After(from) {
		return 0
	}
	return int64(to.Sub(from) / (hoursPerDay * time.Hour))
}

// Accrued returns the reward earned by a principal at a fixed daily rate
// over the given number of whole days.
func Accrued(amount, dailyRate decimal.Decimal, days int64) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return amount.Mul(dailyRate).Mul(decimal.NewFromInt(days))
}

// Realize converts accrued rewards into the amount actually credited at
// unstake time. Unstaking before the lock period elapses pays 90% of the
// accrued rewards; at or after lock expiry (boundary inclusive) the full
// accrued amount is paid. The second return value reports whether the
// withdrawal was early.
func Realize(accrued decimal.Decimal, start, now time.Time, lockPeriodDays int) (decimal.Decimal, bool) {
	lock := time.Duration(lockPeriodDays) * hoursPerDay * time.Hour
	if now.Sub(start) < lock {
		return accrued.Mul(earlyWithdrawalFactor), true
	}
	return accrued, false
}
