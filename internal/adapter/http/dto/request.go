package dto

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/iho/homeledger/internal/domain"
	"github.com/iho/homeledger/internal/usecase"
)

var errAmountType = errors.New("amount must be a JSON string or number")

// Amount is a raw amount field. It accepts a JSON string or a JSON number
// and keeps the literal text, so parsing stays exact.
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errAmountType
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errAmountType
	}
	*a = Amount(n.String())

	return nil
}

func (a *Amount) text() *string {
	if a == nil {
		return nil
	}

	s := string(*a)

	return &s
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:      r.Name,
		CreatedBy: r.CreatedBy,
	}
}

// RowRequest carries the optional fields supplied for one account.
type RowRequest struct {
	Balance *Amount `json:"balance,omitempty"`
	Delta   *Amount `json:"delta,omitempty"`
	Debt    *Amount `json:"debt,omitempty"`
}

// RecordTransactionRequest represents a request to record a transaction.
// Rows is keyed by account ID.
type RecordTransactionRequest struct {
	Description string                `json:"description"`
	Rows        map[string]RowRequest `json:"rows"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordTransactionRequest) ToUseCaseInput() usecase.RecordTransactionInput {
	rows := make(map[string]domain.RowInput, len(r.Rows))
	for accountID, row := range r.Rows {
		rows[accountID] = domain.RowInput{
			Balance: row.Balance.text(),
			Delta:   row.Delta.text(),
			Debt:    row.Debt.text(),
		}
	}

	return usecase.RecordTransactionInput{
		Rows:        rows,
		Description: r.Description,
	}
}
