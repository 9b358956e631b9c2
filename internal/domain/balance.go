package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultBalanceWindow is the number of newest rows replayed when no window is given.
const DefaultBalanceWindow = 100

// MaxBalanceWindow caps the rows fetched for one reconstruction.
const MaxBalanceWindow = 1000

// Reconstruction is the balance and debt derived from an account's newest rows.
// A nil Balance or Debt means unknown, which is distinct from zero.
type Reconstruction struct {
	Balance     *int64
	Debt        *int64
	AccountID   string
	Window      int
	RowsScanned int
	// Truncated is set when the window was exhausted before a balance anchor was found.
	Truncated bool
	// Overflow is set when the anchor plus newer deltas leaves the int64 range.
	// The balance is then unknown.
	Overflow bool
}

// BalanceKnown reports whether a balance anchor was found within the window.
func (r Reconstruction) BalanceKnown() bool {
	return r.Balance != nil
}

// DebtKnown reports whether a debt snapshot was found within the window.
func (r Reconstruction) DebtKnown() bool {
	return r.Debt != nil
}

// BalanceDecimal returns the balance in major units.
func (r Reconstruction) BalanceDecimal() decimal.NullDecimal {
	return MinorToNullDecimal(r.Balance)
}

// DebtDecimal returns the debt in major units.
func (r Reconstruction) DebtDecimal() decimal.NullDecimal {
	return MinorToNullDecimal(r.Debt)
}

// Reconstruct replays rows ordered newest first and derives the current balance and debt.
//
// The newest row carrying a balance is the anchor; deltas of rows newer than
// the anchor are added to it and older deltas are ignored. Debt is the newest
// debt snapshot and is never accumulated. Only the first window rows are read.
func Reconstruct(accountID string, rows []*Row, window int) Reconstruction {
	if window <= 0 {
		window = DefaultBalanceWindow
	}

	if len(rows) > window {
		rows = rows[:window]
	}

	var (
		accumulated   int64
		overflow      bool
		anchorBalance *int64
		anchorDebt    *int64
	)

	for _, row := range rows {
		if anchorBalance == nil {
			if row.Balance != nil {
				v := *row.Balance
				anchorBalance = &v
			} else if row.Delta != nil && !overflow {
				var ok bool
				if accumulated, ok = addInt64(accumulated, *row.Delta); !ok {
					overflow = true
				}
			}
		}

		if anchorDebt == nil && row.Debt != nil {
			v := *row.Debt
			anchorDebt = &v
		}

		if anchorBalance != nil && anchorDebt != nil {
			break
		}
	}

	result := Reconstruction{
		AccountID:   accountID,
		Window:      window,
		RowsScanned: len(rows),
		Debt:        anchorDebt,
	}

	if anchorBalance == nil {
		result.Truncated = len(rows) == window
		return result
	}

	balance, ok := addInt64(*anchorBalance, accumulated)
	if overflow || !ok {
		result.Overflow = true
		return result
	}

	result.Balance = &balance

	return result
}

// addInt64 returns a+b and false when the sum does not fit in an int64.
func addInt64(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}

	return a + b, true
}
