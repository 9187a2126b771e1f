package models

import "time"

// ValidationOutcome is one phase-1 attempt. Rows are append-only; a
// transaction accumulates one row per attempt.
type ValidationOutcome struct {
	ID         string    `json:"id" bson:"_id"`
	ExternalID string    `json:"transaction_id" bson:"transaction_id"`
	Success    bool      `json:"success" bson:"success"`
	Message    string    `json:"message" bson:"message"`
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
}

// ProcessingOutcome is one phase-2 attempt, same append-only rules.
type ProcessingOutcome struct {
	ID         string    `json:"id" bson:"_id"`
	ExternalID string    `json:"transaction_id" bson:"transaction_id"`
	Success    bool      `json:"success" bson:"success"`
	Message    string    `json:"message" bson:"message"`
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
}
