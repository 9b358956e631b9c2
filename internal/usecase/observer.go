package usecase

import (
	"errors"
	"time"

	"github.com/iho/homeledger/internal/domain"
)

type noopObserver struct{}

func (noopObserver) TransactionRecorded(int)                                   {}
func (noopObserver) RecordFailed(string)                                       {}
func (noopObserver) BalanceReconstructed(domain.Reconstruction, time.Duration) {}

func observerOrNoop(o Observer) Observer {
	if o == nil {
		return noopObserver{}
	}
	return o
}

// failureKind classifies a recording error for the Observer.
func failureKind(err error) string {
	var parseErr *domain.ParseError

	switch {
	case errors.As(err, &parseErr), errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrAmountOutOfRange):
		return FailureParse
	case errors.Is(err, domain.ErrPartialWrite):
		return FailurePartial
	case errors.Is(err, domain.ErrStoreUnavailable):
		return FailureUnavailable
	case errors.Is(err, domain.ErrAccountNotFound):
		return FailureNotFound
	case errors.Is(err, domain.ErrEmptyTransaction), errors.Is(err, domain.ErrDescriptionTooLong), errors.Is(err, domain.ErrEmptyRow):
		return FailureValidation
	default:
		return FailureStore
	}
}
