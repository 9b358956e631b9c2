package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for one atomic write scope.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// Listing limits for transactions and accounts.
	DefaultListLimit = 20
	MaxListLimit     = 100

	// MaxRowsPerTransaction bounds the rows loaded for one transaction listing.
	MaxRowsPerTransaction = 200
)

// Record failure kinds reported to the Observer.
const (
	FailureValidation  = "validation"
	FailureParse       = "parse"
	FailureNotFound    = "not_found"
	FailureStore       = "store"
	FailurePartial     = "partial_write"
	FailureUnavailable = "unavailable"
)
