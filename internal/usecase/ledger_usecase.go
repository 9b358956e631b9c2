package usecase

import (
	"context"
	"errors"
)

var (
	// ErrInconsistentLedger is returned when the ledger holds records the
	// recorder never produces on its own.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: empty transactions or rows found")
)

// ConsistencyReport summarizes a ledger-wide consistency check.
type ConsistencyReport struct {
	// EmptyTransactions counts transactions with no rows, the residue of a
	// partial write.
	EmptyTransactions int64
	// EmptyRows counts rows that carry none of balance, delta or debt.
	EmptyRows int64
}

// Consistent reports whether the check found nothing to repair.
func (r ConsistencyReport) Consistent() bool {
	return r.EmptyTransactions == 0 && r.EmptyRows == 0
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency scans the ledger for empty transactions and empty rows.
// The report is returned alongside ErrInconsistentLedger when either is found.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (ConsistencyReport, error) {
	emptyTransactions, emptyRows, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return ConsistencyReport{}, err
	}

	report := ConsistencyReport{
		EmptyTransactions: emptyTransactions,
		EmptyRows:         emptyRows,
	}

	if !report.Consistent() {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
