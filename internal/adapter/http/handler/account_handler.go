package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/homeledger/internal/adapter/http/dto"
	"github.com/iho/homeledger/internal/domain"
	"github.com/iho/homeledger/internal/usecase"
)

// AccountService defines the account operations needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
}

// BalanceService defines the balance operations needed by AccountHandler.
type BalanceService interface {
	GetAccountBalance(ctx context.Context, accountID string, window int) (*usecase.AccountBalance, error)
	ListAccountBalances(ctx context.Context, input usecase.ListAccountsInput) ([]*usecase.AccountBalance, error)
	ListRows(ctx context.Context, input usecase.ListRowsInput) ([]*domain.Row, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	balanceUC BalanceService
	currency  string
}

// NewAccountHandler creates a new AccountHandler. Money is displayed in currency.
func NewAccountHandler(accountUC AccountService, balanceUC BalanceService, currency string) *AccountHandler {
	return &AccountHandler{
		accountUC: accountUC,
		balanceUC: balanceUC,
		currency:  currency,
	}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account with its reconstructed balance.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	ab, err := h.balanceUC.GetAccountBalance(r.Context(), id, parseIntQuery(r, "window", 0))
	if err != nil {
		writeDomainError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountBalanceFromDomain(ab, h.currency))
}

// List lists accounts ordered by name, each with its balance.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", usecase.DefaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	items, err := h.balanceUC.ListAccountBalances(r.Context(), usecase.ListAccountsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDomainError(w, r, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountBalancesFromDomain(items, h.currency),
		Total:    int64(len(items)),
	})
}

// Balance reconstructs the account balance over ?window=N rows.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ab, err := h.balanceUC.GetAccountBalance(r.Context(), id, parseIntQuery(r, "window", 0))
	if err != nil {
		writeDomainError(w, r, "failed to reconstruct balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(ab.Balance, h.currency))
}

// Rows lists the account's newest rows.
func (h *AccountHandler) Rows(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rows, err := h.balanceUC.ListRows(r.Context(), usecase.ListRowsInput{
		AccountID: id,
		Limit:     parseIntQuery(r, "limit", usecase.DefaultListLimit),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list rows", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListRowsResponse{Rows: dto.RowsFromDomain(rows)})
}
