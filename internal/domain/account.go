package domain

import (
	"strings"
	"time"
)

// Account represents a named ledger account.
// Balance and debt are never stored on the account; they are reconstructed
// from its rows on demand.
type Account struct {
	CreatedAt time.Time
	ID        string
	Name      string
	CreatedBy string
}

// Normalize trims surrounding whitespace from user supplied fields.
func (a *Account) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.CreatedBy = strings.TrimSpace(a.CreatedBy)
}

// Validate validates the account before it is provisioned.
func (a *Account) Validate() error {
	return ValidateAccountName(a.Name)
}
