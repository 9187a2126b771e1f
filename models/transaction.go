package models

import (
	// Go Internal Packages
	"time"

	// External Packages
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusValidated TransactionStatus = "VALIDATED"
	StatusProcessed TransactionStatus = "PROCESSED"
	StatusFailed    TransactionStatus = "FAILED"
)

// CanTransition reports whether a status change is a legal lifecycle edge.
// The lifecycle only moves forward (PENDING -> VALIDATED -> PROCESSED);
// any non-terminal state may drop to FAILED. PROCESSED and FAILED are
// terminal.
func CanTransition(from, to TransactionStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusValidated || to == StatusFailed
	case StatusValidated:
		return to == StatusProcessed || to == StatusFailed
	}
	return false
}

// Transaction is the domain view of one gateway notification, keyed by the
// gateway-assigned external id.
type Transaction struct {
	ExternalID     string
	CustomerID     string
	BillRef        string
	RefType        string
	Amount         decimal.Decimal
	Currency       string
	Msisdn         string
	MerchantMsisdn string
	SecondaryRef   string
	Status         TransactionStatus
	RawPayload     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MongoTransaction is the stored form. The external id doubles as _id so the
// collection's primary index enforces external-id uniqueness on insert.
type MongoTransaction struct {
	ExternalID     string            `json:"transaction_id" bson:"_id"`
	CustomerID     string            `json:"customer_id" bson:"customer_id"`
	BillRef        string            `json:"bill_ref" bson:"bill_ref"`
	RefType        string            `json:"ref_type" bson:"ref_type"`
	Amount         string            `json:"amount" bson:"amount"`
	Currency       string            `json:"currency" bson:"currency"`
	Msisdn         string            `json:"msisdn" bson:"msisdn"`
	MerchantMsisdn string            `json:"merchant_msisdn,omitempty" bson:"merchant_msisdn,omitempty"`
	SecondaryRef   string            `json:"secondary_ref,omitempty" bson:"secondary_ref,omitempty"`
	Status         TransactionStatus `json:"status" bson:"status"`
	RawPayload     string            `json:"raw_payload" bson:"raw_payload"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" bson:"updated_at"`
}

func (t *Transaction) Transform() MongoTransaction {
	return MongoTransaction{
		ExternalID:     t.ExternalID,
		CustomerID:     t.CustomerID,
		BillRef:        t.BillRef,
		RefType:        t.RefType,
		Amount:         t.Amount.String(),
		Currency:       t.Currency,
		Msisdn:         t.Msisdn,
		MerchantMsisdn: t.MerchantMsisdn,
		SecondaryRef:   t.SecondaryRef,
		Status:         t.Status,
		RawPayload:     t.RawPayload,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
