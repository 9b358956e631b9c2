package postgres

import (
	"context"

	"github.com/iho/homeledger/internal/domain"
	"github.com/iho/homeledger/internal/infrastructure/postgres/generated"
	"github.com/iho/homeledger/internal/usecase"
)

// RowRepository implements usecase.RowRepository over the append-only
// ledger_rows table.
type RowRepository struct {
	queries *generated.Queries
}

// NewRowRepository creates a new RowRepository.
func NewRowRepository(db generated.DBTX) *RowRepository {
	return &RowRepository{queries: generated.New(db)}
}

// Create inserts a row within tx and stores the assigned sequence on it.
func (r *RowRepository) Create(ctx context.Context, tx usecase.Transaction, row *domain.Row) error {
	if err := row.Validate(); err != nil {
		return err
	}

	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	seq, err := queries.CreateLedgerRow(ctx, generated.CreateLedgerRowParams{
		ID:            row.ID,
		TransactionID: row.TransactionID,
		AccountID:     row.AccountID,
		Delta:         int64ToPgInt8(row.Delta),
		Balance:       int64ToPgInt8(row.Balance),
		Debt:          int64ToPgInt8(row.Debt),
		CreatedAt:     timeToPgTimestamptz(row.CreatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	row.Seq = seq

	return nil
}

// ListByAccount returns the newest rows of an account, newest first.
func (r *RowRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Row, error) {
	rows, err := r.queries.ListLedgerRowsByAccount(ctx, generated.ListLedgerRowsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return toRows(rows), nil
}

// ListByTransaction returns a transaction's rows in insertion order.
func (r *RowRepository) ListByTransaction(ctx context.Context, transactionID string, limit int) ([]*domain.Row, error) {
	rows, err := r.queries.ListLedgerRowsByTransaction(ctx, generated.ListLedgerRowsByTransactionParams{
		TransactionID: transactionID,
		Limit:         int32(limit),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return toRows(rows), nil
}

func toRows(rows []generated.LedgerRow) []*domain.Row {
	out := make([]*domain.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.Row{
			ID:            row.ID,
			TransactionID: row.TransactionID,
			AccountID:     row.AccountID,
			Delta:         pgInt8ToInt64(row.Delta),
			Balance:       pgInt8ToInt64(row.Balance),
			Debt:          pgInt8ToInt64(row.Debt),
			CreatedAt:     row.CreatedAt.Time,
			Seq:           row.Seq,
		})
	}

	return out
}
