package postgres

import (
	"context"

	"github.com/iho/homeledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency counts transactions without rows and rows without values.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (emptyTransactions, emptyRows int64, err error) {
	result, err := r.queries.CheckLedgerConsistency(ctx)
	if err != nil {
		return 0, 0, mapError(err)
	}

	return result.EmptyTransactions, result.EmptyRows, nil
}
