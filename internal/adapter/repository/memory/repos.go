package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iho/homeledger/internal/domain"
	"github.com/iho/homeledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	t, err := r.store.txFor(tx)
	if err != nil {
		return err
	}

	staged := cloneAccount(account)

	return t.stage(func(s *Store) {
		s.accounts[staged.ID] = staged
	})
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	account, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return cloneAccount(account), nil
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.store.mu.RLock()
	all := make([]*domain.Account, 0, len(r.store.accounts))
	for _, account := range r.store.accounts {
		all = append(all, cloneAccount(account))
	}
	r.store.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})

	return page(all, limit, offset), nil
}

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	t, err := r.store.txFor(tx)
	if err != nil {
		return err
	}

	staged := cloneTransaction(transaction)

	return t.stage(func(s *Store) {
		s.transactions[staged.ID] = staged
		s.txOrder = append(s.txOrder, staged.ID)
	})
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	transaction, ok := r.store.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	return cloneTransaction(transaction), nil
}

func (r *TransactionRepository) ListRecent(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	all := make([]*domain.Transaction, 0, len(r.store.txOrder))
	for i := len(r.store.txOrder) - 1; i >= 0; i-- {
		all = append(all, cloneTransaction(r.store.transactions[r.store.txOrder[i]]))
	}
	r.store.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return page(all, limit, offset), nil
}

// RowRepository implements usecase.RowRepository.
type RowRepository struct {
	store *Store
}

func (r *RowRepository) Create(ctx context.Context, tx usecase.Transaction, row *domain.Row) error {
	t, err := r.store.txFor(tx)
	if err != nil {
		return err
	}

	if err := row.Validate(); err != nil {
		return err
	}

	staged := cloneRow(row)

	return t.stage(func(s *Store) {
		s.seq++
		staged.Seq = s.seq
		s.rows = append(s.rows, staged)
	})
}

func (r *RowRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Row, error) {
	r.store.mu.RLock()
	var rows []*domain.Row
	for _, row := range r.store.rows {
		if row.AccountID == accountID {
			rows = append(rows, cloneRow(row))
		}
	}
	r.store.mu.RUnlock()

	domain.SortNewestFirst(rows)

	return page(rows, limit, 0), nil
}

func (r *RowRepository) ListByTransaction(ctx context.Context, transactionID string, limit int) ([]*domain.Row, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var rows []*domain.Row
	for _, row := range r.store.rows {
		if row.TransactionID == transactionID {
			rows = append(rows, cloneRow(row))
		}
	}

	return page(rows, limit, 0), nil
}

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	t, err := r.store.txFor(tx)
	if err != nil {
		return err
	}

	staged := cloneEvent(event)

	return t.stage(func(s *Store) {
		s.outbox = append(s.outbox, staged)
	})
}

func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var events []*domain.OutboxEvent
	for _, event := range r.store.outbox {
		if !event.Published {
			events = append(events, cloneEvent(event))
		}
	}

	return page(events, limit, 0), nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, event := range r.store.outbox {
		if event.ID == id {
			at := publishedAt
			event.Published = true
			event.PublishedAt = &at
			return nil
		}
	}

	return nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

func (r *LedgerRepository) CheckConsistency(ctx context.Context) (int64, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	withRows := make(map[string]bool, len(r.store.transactions))

	var emptyRows int64
	for _, row := range r.store.rows {
		withRows[row.TransactionID] = true
		if !row.HasValue() {
			emptyRows++
		}
	}

	var emptyTransactions int64
	for id := range r.store.transactions {
		if !withRows[id] {
			emptyTransactions++
		}
	}

	return emptyTransactions, emptyRows, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}

	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}

var (
	_ usecase.TransactionManager    = (*TxManager)(nil)
	_ usecase.AccountRepository     = (*AccountRepository)(nil)
	_ usecase.TransactionRepository = (*TransactionRepository)(nil)
	_ usecase.RowRepository         = (*RowRepository)(nil)
	_ usecase.OutboxRepository      = (*OutboxRepository)(nil)
	_ usecase.LedgerRepository      = (*LedgerRepository)(nil)
)
