package models

// Notification carries the normalized fields of one inbound IPN after the
// wire codec has applied the field schema. String zero values mean the
// field was absent from the payload.
type Notification struct {
	ExternalID     string // REFERENCE1, correlates validate and process
	SecondaryRef   string // REFERENCE2, settlement correlation id (phase 2)
	BillRef        string // REFERENCE
	RefType        string // REFTYPE, optional explicit hint
	Amount         string // AMOUNT
	Msisdn         string // CUSTOMERMSISDN
	MerchantMsisdn string // MERCHANTMSISDN
	Type           string // TYPE, C2B triggers prefix-based type inference
}

const (
	ReplySuccess = "SUCCESS"
	ReplyFailed  = "FAILED"
)

// Reply is the lifecycle engine's decision, rendered to the wire by the
// codec in whichever format the request used.
type Reply struct {
	Status        string
	Message       string
	TransactionID string
	// Extra is echoed only by the JSON encoding and only on success paths
	// that carry additional data; the markup format never includes it.
	Extra map[string]string
}

func SuccessReply(message, transactionID string) Reply {
	return Reply{Status: ReplySuccess, Message: message, TransactionID: transactionID}
}

func FailedReply(message, transactionID string) Reply {
	return Reply{Status: ReplyFailed, Message: message, TransactionID: transactionID}
}
