package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrEmptyTransaction    = errors.New("transaction has no ledger rows")
	ErrEmptyRow            = errors.New("ledger row carries no delta, balance or debt")

	// Amount errors
	ErrInvalidAmount    = errors.New("amount is not a valid decimal")
	ErrAmountOutOfRange = errors.New("amount exceeds the representable range")

	// Store errors
	ErrStoreUnavailable = errors.New("ledger store unavailable")
	ErrPartialWrite     = errors.New("transaction partially written")
)

// Row fields named in parse errors.
const (
	FieldBalance = "balance"
	FieldDelta   = "delta"
	FieldDebt    = "debt"
)

// ParseError reports a supplied amount field that could not be parsed.
type ParseError struct {
	Err       error
	AccountID string
	Field     string
	Input     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("account %s: %s: %v", e.AccountID, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PartialWriteError reports a recording whose transaction record may have
// been persisted without all of its rows.
type PartialWriteError struct {
	Err           error
	TransactionID string
	RowsWritten   int
	RowsExpected  int
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("transaction %s: %d of %d rows written: %v",
		e.TransactionID, e.RowsWritten, e.RowsExpected, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPartialWrite) match.
func (e *PartialWriteError) Is(target error) bool {
	return target == ErrPartialWrite
}
