package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/homeledger/internal/domain"
)

// TransactionUseCaseDeps holds the collaborators of TransactionUseCase.
type TransactionUseCaseDeps struct {
	TxManager       TransactionManager
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepository
	RowRepo         RowRepository
	OutboxRepo      OutboxRepository
	IDGen           IDGenerator
	// Retrier is optional. Without it the write scope runs once.
	Retrier  Retrier
	Observer Observer
}

// TransactionUseCase records multi-account transactions and reads them back.
type TransactionUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	rowRepo         RowRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	retrier         Retrier
	observer        Observer
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(deps TransactionUseCaseDeps) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       deps.TxManager,
		accountRepo:     deps.AccountRepo,
		transactionRepo: deps.TransactionRepo,
		rowRepo:         deps.RowRepo,
		outboxRepo:      deps.OutboxRepo,
		idGen:           deps.IDGen,
		retrier:         deps.Retrier,
		observer:        observerOrNoop(deps.Observer),
	}
}

// RecordTransactionInput represents input for recording a transaction.
// Rows maps account IDs to the raw fields supplied for them.
type RecordTransactionInput struct {
	Rows        map[string]domain.RowInput
	Description string
}

// RecordTransaction parses the inputs, then persists the transaction, its
// rows and an outbox event in one atomic write scope. It returns the new
// transaction ID.
func (uc *TransactionUseCase) RecordTransaction(ctx context.Context, input RecordTransactionInput) (string, error) {
	id, rowCount, err := uc.record(ctx, input)
	if err != nil {
		uc.observer.RecordFailed(failureKind(err))
		return "", err
	}

	uc.observer.TransactionRecorded(rowCount)

	return id, nil
}

func (uc *TransactionUseCase) record(ctx context.Context, input RecordTransactionInput) (string, int, error) {
	// 0. Validate and parse everything before touching the store
	if err := domain.ValidateDescription(input.Description); err != nil {
		return "", 0, err
	}

	rows, err := buildRows(input.Rows)
	if err != nil {
		return "", 0, err
	}

	if len(rows) == 0 {
		return "", 0, domain.ErrEmptyTransaction
	}

	// 1. Every referenced account must exist
	for _, row := range rows {
		if _, err := uc.accountRepo.GetByID(ctx, row.AccountID); err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return "", 0, fmt.Errorf("%w: %s", err, row.AccountID)
			}

			return "", 0, err
		}
	}

	// 2. Persist inside one write scope, retrying transient conflicts
	var transactionID string

	persist := func() error {
		id, err := uc.persist(ctx, input.Description, rows)
		if err != nil {
			return err
		}

		transactionID = id

		return nil
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, persist)
	} else {
		err = persist()
	}

	if err != nil {
		return "", 0, err
	}

	return transactionID, len(rows), nil
}

func (uc *TransactionUseCase) persist(ctx context.Context, description string, rows []*domain.Row) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	transaction := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		CreatedAt:   now,
		Description: description,
	}

	if err := uc.transactionRepo.Create(ctx, tx, transaction); err != nil {
		_ = tx.Rollback(context.WithoutCancel(ctx))
		return "", err
	}

	for i, row := range rows {
		row.ID = uc.idGen.Generate()
		row.TransactionID = transaction.ID
		row.CreatedAt = now

		if err := uc.rowRepo.Create(ctx, tx, row); err != nil {
			return "", uc.abort(ctx, tx, transaction.ID, i, len(rows), err)
		}
	}

	transaction.Rows = rows

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transaction.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionRecorded,
		Payload: domain.TransactionRecordedEvent{
			TransactionID: transaction.ID,
			Description:   transaction.Description,
			AccountIDs:    transaction.AccountIDs(),
			RowCount:      len(rows),
			CreatedAt:     now.Format(time.RFC3339Nano),
		}.Payload(),
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return "", uc.abort(ctx, tx, transaction.ID, len(rows), len(rows), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit transaction %s: %w", transaction.ID, err)
	}

	return transaction.ID, nil
}

// abort rolls the write scope back after a failed write. When the rollback
// itself fails the transaction record may survive without all of its rows,
// which is reported as a PartialWriteError.
func (uc *TransactionUseCase) abort(ctx context.Context, tx Transaction, transactionID string, written, expected int, cause error) error {
	rbErr := tx.Rollback(context.WithoutCancel(ctx))
	if rbErr == nil {
		return cause
	}

	partial := &domain.PartialWriteError{
		TransactionID: transactionID,
		RowsWritten:   written,
		RowsExpected:  expected,
		Err:           errors.Join(cause, rbErr),
	}

	zerolog.Ctx(ctx).Error().
		Err(partial).
		Str("transaction_id", transactionID).
		Int("rows_written", written).
		Int("rows_expected", expected).
		Msg("ledger may be inconsistent: rollback failed after partial write")

	return partial
}

// buildRows parses the inputs in account ID order so row order is deterministic.
func buildRows(inputs map[string]domain.RowInput) ([]*domain.Row, error) {
	accountIDs := make([]string, 0, len(inputs))
	for id := range inputs {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	rows := make([]*domain.Row, 0, len(accountIDs))
	for _, id := range accountIDs {
		row, err := inputs[id].Parse(id)
		if err != nil {
			return nil, err
		}

		if row != nil {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// GetTransaction retrieves a transaction with its rows.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := uc.rowRepo.ListByTransaction(ctx, transaction.ID, MaxRowsPerTransaction)
	if err != nil {
		return nil, err
	}

	transaction.Rows = rows

	return transaction, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	Limit  int
	Offset int
}

// ListTransactions lists recent transactions newest first, each with its rows.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset, DefaultListLimit, MaxListLimit)

	transactions, err := uc.transactionRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, transaction := range transactions {
		rows, err := uc.rowRepo.ListByTransaction(ctx, transaction.ID, MaxRowsPerTransaction)
		if err != nil {
			return nil, err
		}

		transaction.Rows = rows
	}

	return transactions, nil
}
