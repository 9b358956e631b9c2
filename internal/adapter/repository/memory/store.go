// Package memory is an in-process ledger store. Writes are staged on a Tx
// and applied together on Commit, so a recording is visible in full or not
// at all.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/homeledger/internal/domain"
	"github.com/iho/homeledger/internal/usecase"
)

var (
	// ErrTxClosed is returned when a committed or rolled back Tx is used.
	ErrTxClosed = errors.New("memory: transaction already closed")
	// ErrForeignTx is returned when a write scope from another store is passed in.
	ErrForeignTx = errors.New("memory: transaction does not belong to this store")
)

// Store holds committed ledger state.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]*domain.Account
	transactions map[string]*domain.Transaction
	txOrder      []string
	rows         []*domain.Row
	outbox       []*domain.OutboxEvent
	seq          int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*domain.Account),
		transactions: make(map[string]*domain.Transaction),
	}
}

// TxManager returns a transaction manager for the store.
func (s *Store) TxManager() *TxManager { return &TxManager{store: s} }

// Accounts returns the account repository.
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{store: s} }

// Transactions returns the transaction repository.
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{store: s} }

// Rows returns the row repository.
func (s *Store) Rows() *RowRepository { return &RowRepository{store: s} }

// Outbox returns the outbox repository.
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{store: s} }

// Ledger returns the ledger-wide repository.
func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{store: s} }

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// TxManager begins staged write scopes on a Store.
type TxManager struct {
	store *Store
}

// Begin starts a new write scope.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{store: m.store}, nil
}

// Tx is a staged write scope. Nothing it holds is visible until Commit.
type Tx struct {
	store  *Store
	mu     sync.Mutex
	ops    []func(*Store)
	closed bool
}

func (t *Tx) stage(op func(*Store)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxClosed
	}

	t.ops = append(t.ops, op)

	return nil
}

// Commit applies every staged write under a single lock.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	t.closed = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, op := range t.ops {
		op(t.store)
	}
	t.ops = nil

	return nil
}

// Rollback discards the staged writes. Rolling back a closed Tx is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	t.ops = nil

	return nil
}

func (s *Store) txFor(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, ErrForeignTx
	}

	return t, nil
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}

func cloneRow(r *domain.Row) *domain.Row {
	c := *r
	c.Balance = cloneInt64(r.Balance)
	c.Delta = cloneInt64(r.Delta)
	c.Debt = cloneInt64(r.Debt)

	return &c
}

func cloneTransaction(t *domain.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:          t.ID,
		CreatedAt:   t.CreatedAt,
		Description: t.Description,
	}
}

func cloneEvent(e *domain.OutboxEvent) *domain.OutboxEvent {
	c := *e
	if e.PublishedAt != nil {
		at := *e.PublishedAt
		c.PublishedAt = &at
	}

	return &c
}
