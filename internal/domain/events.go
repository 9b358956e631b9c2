package domain

import "time"

// Event types
const (
	EventTypeTransactionRecorded = "transaction.recorded"
	EventTypeAccountCreated      = "account.created"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeAccount     = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Payload       map[string]any
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Published     bool
}

// TransactionRecordedEvent payload
type TransactionRecordedEvent struct {
	TransactionID string   `json:"transaction_id"`
	Description   string   `json:"description"`
	AccountIDs    []string `json:"account_ids"`
	RowCount      int      `json:"row_count"`
	CreatedAt     string   `json:"created_at"`
}

// Payload converts the event into an outbox payload.
func (e TransactionRecordedEvent) Payload() map[string]any {
	return map[string]any{
		"transaction_id": e.TransactionID,
		"description":    e.Description,
		"account_ids":    e.AccountIDs,
		"row_count":      e.RowCount,
		"created_at":     e.CreatedAt,
	}
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
}

// Payload converts the event into an outbox payload.
func (e AccountCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"account_id": e.AccountID,
		"name":       e.Name,
		"created_by": e.CreatedBy,
	}
}
