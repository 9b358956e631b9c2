package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/homeledger/internal/domain"
	"github.com/iho/homeledger/internal/usecase"
)

// MoneyResponse is an amount in major units with a display string.
// Both are null when the amount is unknown.
type MoneyResponse struct {
	Amount  decimal.NullDecimal `json:"amount"`
	Display *string             `json:"display"`
}

func moneyFromMinor(minor *int64, currency string) MoneyResponse {
	if minor == nil {
		return MoneyResponse{}
	}

	display := domain.FormatMinorUnits(*minor, currency)

	return MoneyResponse{
		Amount:  domain.MinorToNullDecimal(minor),
		Display: &display,
	}
}

// BalanceResponse represents a reconstructed balance.
type BalanceResponse struct {
	AccountID   string        `json:"account_id"`
	Currency    string        `json:"currency"`
	Balance     MoneyResponse `json:"balance"`
	Debt        MoneyResponse `json:"debt"`
	Window      int           `json:"window"`
	RowsScanned int           `json:"rows_scanned"`
	Truncated   bool          `json:"truncated"`
	Overflow    bool          `json:"overflow,omitempty"`
}

// BalanceFromDomain converts a reconstruction to a response.
func BalanceFromDomain(r domain.Reconstruction, currency string) *BalanceResponse {
	return &BalanceResponse{
		AccountID:   r.AccountID,
		Currency:    currency,
		Balance:     moneyFromMinor(r.Balance, currency),
		Debt:        moneyFromMinor(r.Debt, currency),
		Window:      r.Window,
		RowsScanned: r.RowsScanned,
		Truncated:   r.Truncated,
		Overflow:    r.Overflow,
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedBy string           `json:"created_by,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Balance   *BalanceResponse `json:"balance,omitempty"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
}

// AccountBalanceFromDomain converts an account with its balance.
func AccountBalanceFromDomain(ab *usecase.AccountBalance, currency string) *AccountResponse {
	resp := AccountFromDomain(ab.Account)
	resp.Balance = BalanceFromDomain(ab.Balance, currency)

	return resp
}

// AccountBalancesFromDomain converts a listing of accounts with balances.
func AccountBalancesFromDomain(items []*usecase.AccountBalance, currency string) []*AccountResponse {
	result := make([]*AccountResponse, len(items))
	for i, ab := range items {
		result[i] = AccountBalanceFromDomain(ab, currency)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// RowResponse represents one ledger row. Unsupplied fields are null.
type RowResponse struct {
	ID            string              `json:"id"`
	TransactionID string              `json:"transaction_id"`
	AccountID     string              `json:"account_id"`
	Delta         decimal.NullDecimal `json:"delta"`
	Balance       decimal.NullDecimal `json:"balance"`
	Debt          decimal.NullDecimal `json:"debt"`
	CreatedAt     time.Time           `json:"created_at"`
}

// RowFromDomain converts a domain row to response.
func RowFromDomain(r *domain.Row) *RowResponse {
	return &RowResponse{
		ID:            r.ID,
		TransactionID: r.TransactionID,
		AccountID:     r.AccountID,
		Delta:         domain.MinorToNullDecimal(r.Delta),
		Balance:       domain.MinorToNullDecimal(r.Balance),
		Debt:          domain.MinorToNullDecimal(r.Debt),
		CreatedAt:     r.CreatedAt,
	}
}

// RowsFromDomain converts domain rows to responses.
func RowsFromDomain(rows []*domain.Row) []*RowResponse {
	result := make([]*RowResponse, len(rows))
	for i, r := range rows {
		result[i] = RowFromDomain(r)
	}
	return result
}

// ListRowsResponse represents an account's newest rows.
type ListRowsResponse struct {
	Rows []*RowResponse `json:"rows"`
}

// TransactionResponse represents a transaction with its rows.
type TransactionResponse struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	Rows        []*RowResponse `json:"rows"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		Rows:        RowsFromDomain(t.Rows),
	}
}

// ListTransactionsResponse represents a list of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// RecordTransactionResponse is returned after a transaction is recorded.
type RecordTransactionResponse struct {
	ID string `json:"id"`
}

// ConsistencyResponse represents a ledger consistency report.
type ConsistencyResponse struct {
	Consistent        bool  `json:"consistent"`
	EmptyTransactions int64 `json:"empty_transactions"`
	EmptyRows         int64 `json:"empty_rows"`
}

// ConsistencyFromReport converts a consistency report.
func ConsistencyFromReport(r usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:        r.Consistent(),
		EmptyTransactions: r.EmptyTransactions,
		EmptyRows:         r.EmptyRows,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
