package domain

import (
	"time"
)

// Transaction groups the rows written together by one recording.
type Transaction struct {
	CreatedAt   time.Time
	ID          string
	Description string
	Rows        []*Row
}

// AccountIDs returns the distinct account ids touched by the transaction, in row order.
func (t *Transaction) AccountIDs() []string {
	seen := make(map[string]bool, len(t.Rows))

	ids := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		if seen[r.AccountID] {
			continue
		}

		seen[r.AccountID] = true
		ids = append(ids, r.AccountID)
	}

	return ids
}
