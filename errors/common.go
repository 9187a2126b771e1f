package errors

import "fmt"

func MalformedPayloadErr(err error) error {
	return E(Invalid, "malformed payload", err)
}

func InvalidBodyErr(err error) error {
	return E(Invalid, "invalid request body", err)
}

func EmptyParamErr(field string) error {
	ve := ValidationErrs()
	ve.Add(field, "cannot be empty")
	return E(Invalid, "validation failed", ve.Err())
}

// DuplicateTransactionErr reports an insert that lost the unique-index race
// for a given external transaction id.
func DuplicateTransactionErr(externalID string) error {
	return E(Conflict, fmt.Sprintf("transaction %s already exists", externalID))
}

func TransactionNotFoundErr(externalID string) error {
	return E(NotFound, fmt.Sprintf("transaction %s not found", externalID))
}

func CustomerNotFoundErr(billRef string) error {
	return E(NotFound, fmt.Sprintf("no active customer for bill ref %s", billRef))
}

// StaleStatusErr reports a compare-and-set that found a different status
// than the caller expected. The caller must re-read before deciding.
func StaleStatusErr(externalID string) error {
	return E(Conflict, fmt.Sprintf("transaction %s status changed concurrently", externalID))
}

// IllegalTransitionErr reports a status update along an edge the lifecycle
// does not allow, such as reopening a terminal transaction.
func IllegalTransitionErr(externalID, from, to string) error {
	return E(Invalid, fmt.Sprintf("transaction %s cannot move from %s to %s", externalID, from, to))
}
