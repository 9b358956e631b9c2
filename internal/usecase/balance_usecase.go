package usecase

import (
	"context"
	"time"

	"github.com/iho/homeledger/internal/domain"
)

// BalanceUseCase reconstructs account balances from the ledger rows.
// It holds no state between calls and never caches results.
type BalanceUseCase struct {
	accountRepo   AccountRepository
	rowRepo       RowRepository
	observer      Observer
	defaultWindow int
}

// NewBalanceUseCase creates a new BalanceUseCase.
// A non-positive defaultWindow falls back to domain.DefaultBalanceWindow.
func NewBalanceUseCase(accountRepo AccountRepository, rowRepo RowRepository, defaultWindow int, observer Observer) *BalanceUseCase {
	return &BalanceUseCase{
		accountRepo:   accountRepo,
		rowRepo:       rowRepo,
		observer:      observerOrNoop(observer),
		defaultWindow: domain.ClampWindow(defaultWindow, domain.DefaultBalanceWindow),
	}
}

// Reconstruct replays at most window of the account's newest rows.
// A non-positive window uses the configured default.
func (uc *BalanceUseCase) Reconstruct(ctx context.Context, accountID string, window int) (domain.Reconstruction, error) {
	start := time.Now()
	window = domain.ClampWindow(window, uc.defaultWindow)

	rows, err := uc.rowRepo.ListByAccount(ctx, accountID, window)
	if err != nil {
		return domain.Reconstruction{}, err
	}

	result := domain.Reconstruct(accountID, rows, window)
	uc.observer.BalanceReconstructed(result, time.Since(start))

	return result, nil
}

// AccountBalance pairs an account with its reconstructed balance.
type AccountBalance struct {
	Account *domain.Account
	Balance domain.Reconstruction
}

// GetAccountBalance loads an account and reconstructs its balance.
func (uc *BalanceUseCase) GetAccountBalance(ctx context.Context, accountID string, window int) (*AccountBalance, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	balance, err := uc.Reconstruct(ctx, account.ID, window)
	if err != nil {
		return nil, err
	}

	return &AccountBalance{Account: account, Balance: balance}, nil
}

// ListAccountBalances lists accounts ordered by name with their balances.
func (uc *BalanceUseCase) ListAccountBalances(ctx context.Context, input ListAccountsInput) ([]*AccountBalance, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset, DefaultListLimit, MaxListLimit)

	accounts, err := uc.accountRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]*AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		balance, err := uc.Reconstruct(ctx, account.ID, 0)
		if err != nil {
			return nil, err
		}

		result = append(result, &AccountBalance{Account: account, Balance: balance})
	}

	return result, nil
}

// ListRowsInput represents input for listing an account's rows.
type ListRowsInput struct {
	AccountID string
	Limit     int
}

// ListRows returns the account's newest rows.
func (uc *BalanceUseCase) ListRows(ctx context.Context, input ListRowsInput) ([]*domain.Row, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, _ := domain.ValidatePagination(input.Limit, 0, DefaultListLimit, domain.MaxBalanceWindow)

	return uc.rowRepo.ListByAccount(ctx, input.AccountID, limit)
}
