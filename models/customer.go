package models

import "time"

type CustomerStatus string

const (
	CustomerActive    CustomerStatus = "ACTIVE"
	CustomerInactive  CustomerStatus = "INACTIVE"
	CustomerSuspended CustomerStatus = "SUSPENDED"
)

// Customer is directory data owned by the customer directory; this service
// only reads it. (bill_ref, ref_type) is unique per customer.
type Customer struct {
	ID        string         `json:"id" bson:"_id"`
	BillRef   string         `json:"bill_ref" bson:"bill_ref"`
	RefType   string         `json:"ref_type" bson:"ref_type"`
	Msisdn    string         `json:"msisdn" bson:"msisdn"`
	FullName  string         `json:"full_name" bson:"full_name"`
	Status    CustomerStatus `json:"status" bson:"status"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}
