package usecase

import (
	"context"
	"time"

	"github.com/iho/homeledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// List returns accounts ordered by name.
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// ListRecent returns transactions newest first, without rows.
	ListRecent(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
}

// RowRepository defines data access for ledger rows.
type RowRepository interface {
	Create(ctx context.Context, tx Transaction, row *domain.Row) error
	// ListByAccount returns at most limit rows for the account ordered by
	// (created_at, seq) descending.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Row, error)
	// ListByTransaction returns the rows of a transaction in insertion order.
	ListByTransaction(ctx context.Context, transactionID string, limit int) ([]*domain.Row, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (emptyTransactions, emptyRows int64, err error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents an atomic write scope in the ledger store.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient store conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Observer receives measurements from the use cases.
type Observer interface {
	TransactionRecorded(rows int)
	RecordFailed(kind string)
	BalanceReconstructed(result domain.Reconstruction, duration time.Duration)
}

// IdempotentResponse is a completed response kept under an idempotency key.
type IdempotentResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore reserves idempotency keys and keeps completed responses.
type IdempotencyStore interface {
	// Reserve claims key for an in-flight request. claimed is true when the
	// caller now owns the key. Otherwise resp holds the completed response,
	// or is nil while another request still holds the key.
	Reserve(ctx context.Context, key string, ttl time.Duration) (resp *IdempotentResponse, claimed bool, err error)
	// Complete stores the final response for a claimed key.
	Complete(ctx context.Context, key string, resp IdempotentResponse, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}
