package models

import "time"

const (
	EventValidated = "transaction.validated"
	EventProcessed = "transaction.processed"
	EventFailed    = "transaction.failed"
)

// LifecycleEvent is published to Kafka after a lifecycle transition so
// downstream consumers (settlement, notifications) can react. Delivery is
// best-effort and never affects the gateway reply.
type LifecycleEvent struct {
	Type       string            `json:"type"`
	ExternalID string            `json:"transaction_id"`
	BillRef    string            `json:"bill_ref,omitempty"`
	Amount     string            `json:"amount,omitempty"`
	Currency   string            `json:"currency,omitempty"`
	Status     TransactionStatus `json:"status"`
	Message    string            `json:"message,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
