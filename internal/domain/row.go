package domain

import (
	"sort"
	"strings"
	"time"
)

// Row is one immutable ledger entry for one account within one transaction.
//
// Delta is an incremental change. Balance and Debt are absolute snapshots.
// All three are signed minor units (cents) and nil when not supplied.
type Row struct {
	CreatedAt     time.Time
	Delta         *int64
	Balance       *int64
	Debt          *int64
	ID            string
	AccountID     string
	TransactionID string
	// Seq is the store assigned insertion sequence. It breaks CreatedAt ties.
	Seq int64
}

// HasValue reports whether the row carries at least one field.
func (r *Row) HasValue() bool {
	return r.Delta != nil || r.Balance != nil || r.Debt != nil
}

// Validate checks the row invariants required before persistence.
func (r *Row) Validate() error {
	if r.AccountID == "" {
		return ErrAccountNotFound
	}

	if !r.HasValue() {
		return ErrEmptyRow
	}

	return nil
}

// NewerThan reports whether r comes after other in the account ordering.
func (r *Row) NewerThan(other *Row) bool {
	if !r.CreatedAt.Equal(other.CreatedAt) {
		return r.CreatedAt.After(other.CreatedAt)
	}

	return r.Seq > other.Seq
}

// SortNewestFirst orders rows by (CreatedAt, Seq) descending.
func SortNewestFirst(rows []*Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].NewerThan(rows[j])
	})
}

// RowInput holds the raw text fields supplied for one account.
// A nil or blank field is treated as not supplied.
type RowInput struct {
	Balance *string
	Delta   *string
	Debt    *string
}

// Supplied reports whether a raw field was given a value.
func Supplied(field *string) bool {
	return field != nil && strings.TrimSpace(*field) != ""
}

// Parse converts the supplied fields into a row for accountID.
// It returns a nil row when no field was supplied. Zero values are kept.
func (in RowInput) Parse(accountID string) (*Row, error) {
	row := &Row{AccountID: accountID}

	fields := []struct {
		name string
		raw  *string
		dst  **int64
	}{
		{FieldBalance, in.Balance, &row.Balance},
		{FieldDelta, in.Delta, &row.Delta},
		{FieldDebt, in.Debt, &row.Debt},
	}

	for _, f := range fields {
		if !Supplied(f.raw) {
			continue
		}

		v, err := ParseMinorUnits(*f.raw)
		if err != nil {
			return nil, &ParseError{AccountID: accountID, Field: f.name, Input: *f.raw, Err: err}
		}

		*f.dst = &v
	}

	if !row.HasValue() {
		return nil, nil
	}

	return row, nil
}
