package ipn

import (
	// Go Internal Packages
	"context"
	"testing"
	"time"

	// Local Packages
	config "ipn-gateway/config"
	errors "ipn-gateway/errors"
	models "ipn-gateway/models"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	svc       *Service
	txs       *fakeTxRepo
	customers *fakeCustomerRepo
	outcomes  *fakeOutcomeRepo
	events    *fakeEvents
}

func activeCustomer() models.Customer {
	return models.Customer{
		ID:       "cust-1",
		BillRef:  "ACC123456",
		RefType:  "ACCOUNT",
		Msisdn:   "254712345678",
		FullName: "Jane Wanjiku",
		Status:   models.CustomerActive,
	}
}

func rules() config.Validation {
	return config.Validation{
		DefaultRefType: "ACCOUNT",
		RefTypePrefixes: map[string]string{
			"INV": "INVOICE",
			"MTR": "METER",
			"POL": "POLICY",
			"MSI": "MSISDN",
		},
	}
}

func newHarness(customers ...models.Customer) *harness {
	if len(customers) == 0 {
		customers = []models.Customer{activeCustomer()}
	}
	h := &harness{
		txs:       newFakeTxRepo(),
		customers: newFakeCustomerRepo(customers...),
		outcomes:  &fakeOutcomeRepo{},
		events:    &fakeEvents{},
	}
	h.svc = NewService(zap.NewNop(), h.txs, h.customers, h.outcomes, h.events, nil, rules())
	return h
}

func validNotification() models.Notification {
	return models.Notification{
		ExternalID: "TRX1",
		BillRef:    "ACC123456",
		RefType:    "ACCOUNT",
		Amount:     "1500",
		Msisdn:     "254712345678",
	}
}

func TestValidateSuccess(t *testing.T) {
	h := newHarness()

	reply := h.svc.Validate(context.Background(), validNotification(), []byte("raw"))

	assert.Equal(t, models.ReplySuccess, reply.Status)
	assert.Equal(t, "Transaction validated successfully", reply.Message)
	assert.Equal(t, "TRX1", reply.TransactionID)

	tx, err := h.txs.GetByExternalID(context.Background(), "TRX1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusValidated, tx.Status)
	assert.Equal(t, "ACC123456", tx.BillRef)
	assert.Equal(t, "1500", tx.Amount)
	assert.Equal(t, "KES", tx.Currency)
	assert.Equal(t, "cust-1", tx.CustomerID)
	assert.Equal(t, "raw", tx.RawPayload)

	require.Len(t, h.outcomes.validations, 1)
	assert.True(t, h.outcomes.validations[0].Success)

	require.Len(t, h.events.events, 1)
	assert.Equal(t, models.EventValidated, h.events.events[0].Type)
}

func TestValidateMissingRequiredFields(t *testing.T) {
	h := newHarness()

	for _, n := range []models.Notification{
		{BillRef: "ACC123456", Amount: "1500", Msisdn: "254712345678"},
		{ExternalID: "TRX1", Amount: "1500", Msisdn: "254712345678"},
		{ExternalID: "TRX1", BillRef: "ACC123456", Msisdn: "254712345678"},
		{ExternalID: "TRX1", BillRef: "ACC123456", Amount: "1500"},
	} {
		reply := h.svc.Validate(context.Background(), n, nil)
		assert.Equal(t, models.ReplyFailed, reply.Status)
		assert.Equal(t, "Missing required fields", reply.Message)
	}
	assert.Empty(t, h.txs.txs)
}

func TestValidateInvalidBillRef(t *testing.T) {
	h := newHarness()
	n := validNotification()
	n.BillRef = "INVOICE@123"

	reply := h.svc.Validate(context.Background(), n, nil)

	assert.Equal(t, models.ReplyFailed, reply.Status)
	assert.Equal(t, "Invalid bill reference: Bill reference number contains invalid characters", reply.Message)
	assert.Empty(t, h.txs.txs)
	assert.Empty(t, h.outcomes.validations)
}

// Presence is checked before syntax: a request that is both incomplete and
// syntactically broken reports the missing fields.
func TestValidateCheckOrdering(t *testing.T) {
	h := newHarness()

	n := models.Notification{ExternalID: "TRX1", BillRef: "BAD@REF", Msisdn: "254712345678"}
	reply := h.svc.Validate(context.Background(), n, nil)
	assert.Equal(t, "Missing required fields", reply.Message)

	// Syntax is checked before directory existence: an unknown but broken
	// reference reports the syntax failure.
	n = validNotification()
	n.BillRef = "NOSUCH@REF"
	reply = h.svc.Validate(context.Background(), n, nil)
	assert.Equal(t, "Invalid bill reference: Bill reference number contains invalid characters", reply.Message)
}

func TestValidateInvalidRefType(t *testing.T) {
	h := newHarness()
	n := validNotification()
	n.RefType = "HOUSE"

	reply := h.svc.Validate(context.Background(), n, nil)

	assert.Equal(t, models.ReplyFailed, reply.Status)
	assert.Equal(t, "Invalid reference type: Reference type must be one of: MSISDN, ACCOUNT, INVOICE, POLICY, METER, OTHER", reply.Message)
	assert.Empty(t, h.txs.txs)
}

func TestValidateInvalidAmount(t *testing.T) {
	h := newHarness()
	n := validNotification()
	n.Amount = "not-a-number"

	reply := h.svc.Validate(context.Background(), n, nil)

	assert.Equal(t, models.ReplyFailed, reply.Status)
	assert.Equal(t, "Invalid amount format", reply.Message)
	assert.Empty(t, h.txs.txs)
}

func TestValidateUnknownCustomer(t *testing.T) {
	h := newHarness()
	n := validNotification()
	n.BillRef = "ACC999999"

	reply := h.svc.Validate(context.Background(), n, nil)

	assert.Equal(t, models.ReplyFailed, reply.Status)
	assert.Equal(t, "Customer not found or inactive", reply.Message)
	assert.Empty(t, h.txs.txs)
}

func TestValidateInactiveCustomer(t *testing.T) {
	c := activeCustomer()
	c.Status = models.CustomerSuspended
	h := newHarness(c)

	reply := h.svc.Validate(context.Background(), validNotification(), nil)

	assert.Equal(t, models.ReplyFailed, reply.Status)
	assert.Equal(t, "Customer not found or inactive", reply.Message)
}

// Validating the same external id twice yields exactly one transaction; the
// second call reports the duplicate.
func TestValidateDuplicateExternalID(t *testing.T) {
	h := newHarness()

	first := h.svc.Validate(context.Background(), validNotification(), nil)
	require.Equal(t, models.ReplySuccess, first.Status)

	second := h.svc.Validate(context.Background(), validNotification(), nil)
	assert.Equal(t, models.ReplyFailed, second.Status)
	assert.Equal(t, "Transaction already processed", second.Message)

	assert.Len(t, h.txs.txs, 1)
	assert.Len(t, h.outcomes.validations, 1)
}

func TestValidateInfersRefTypeFromPrefix(t *testing.T) {
	c := activeCustomer()
	c.BillRef = "INV555"
	c.RefType = "INVOICE"
	h := newHarness(c)

	n := models.Notification{
		ExternalID: "TRX2",
		BillRef:    "INV555",
		Amount:     "980.25",
		Msisdn:     "254712345678",
		Type:       "C2B",
	}
	reply := h.svc.Validate(context.Background(), n, nil)
	require.Equal(t, models.ReplySuccess, reply.Status)

	tx, err := h.txs.GetByExternalID(context.Background(), "TRX2")
	require.NoError(t, err)
	assert.Equal(t, "INVOICE", tx.RefType)
}

// Without a hint and without a C2B marker, no inference runs and the stored
// type falls back to the configured default.
func TestValidateDefaultsRefType(t *testing.T) {
	h := newHarness()
	n := validNotification()
	n.RefType = ""

	reply := h.svc.Validate(context.Background(), n, nil)
	require.Equal(t, models.ReplySuccess, reply.Status)

	tx, err := h.txs.GetByExternalID(context.Background(), "TRX1")
	require.NoError(t, err)
	assert.Equal(t, "ACCOUNT", tx.RefType)
}

func TestProcessSuccess(t *testing.T) {
	h := newHarness()
	require.Equal(t, models.ReplySuccess,
		h.svc.Validate(context.Background(), validNotification(), nil).Status)

	reply := h.svc.Process(context.Background(), models.Notification{ExternalID: "TRX1"}, nil)

	assert.Equal(t, models.ReplySuccess, reply.Status)
	assert.Equal(t, "Transaction processed successfully", reply.Message)
	assert.Equal(t, "ACC123456", reply.Extra["billRef"])
	assert.Equal(t, "1500", reply.Extra["amount"])
	assert.Equal(t, "KES", reply.Extra["currency"])
	assert.Equal(t, "Jane Wanjiku", reply.Extra["customerName"])
	assert.Equal(t, "254712345678", reply.Extra["msisdn"])

	tx, err := h.txs.GetByExternalID(context.Background(), "TRX1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessed, tx.Status)

	require.Len(t, h.outcomes.processings, 1)
	assert.True(t, h.outcomes.processings[0].Success)
}

// Processing an already-processed transaction is an idempotent no-op: success
// reply, no new outcome row, no mutation.
func TestProcessIdempotent(t *testing.T) {
	h := newHarness()
	h.svc.Validate(context.Background(), validNotification(), nil)
	h.svc.Process(context.Background(), models.Notification{ExternalID: "TRX1"}, nil)

	before, err := h.txs.GetByExternalID(context.Background(), "TRX1")
	require.NoError(t, err)

	reply := h.svc.Process(context.Background(), models.Notification{ExternalID: "TRX1"}, nil)
	assert.Equal(t, models.ReplySuccess, reply.Status)
	assert.Equal(t, "Transaction already processed", reply.Message)
	assert.Empty(t, reply.Extra)

	after, err := h.txs.GetByExternalID(context.Background(), "TRX1")
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Len(t, h.outcomes.processings, 1)
}

func TestProcessUnknownTransaction(t *testing.T) {
	h := newHarness()

	reply := h.svc.Process(context.Background(), models.Notification{ExternalID: "TRX_GHOST"}, nil)

	assert.Equal(t, models.ReplyFailed, reply.Status)
	assert.Equal(t, "Transaction not found", reply.Message)
}

func TestProcessMissingTransactionID(t *testing.T) {
	h := newHarness()

	reply := h.svc.Process(context.Background(), models.Notification{}, nil)

	assert.Equal(t, models.ReplyFailed, reply.Status)
	assert.Equal(t, "Missing transaction ID", reply.Message)
	assert.Equal(t, "unknown", reply.TransactionID)
}

// Phase 2 must never run ahead of phase 1.
func TestProcessRejectsUnvalidated(t *testing.T) {
	h := newHarness()
	pending := models.MongoTransaction{
		ExternalID: "TRX_PENDING",
		CustomerID: "cust-1",
		Status:     models.StatusPending,
	}
	require.NoError(t, h.txs.Create(context.Background(), pending))

	reply := h.svc.Process(context.Background(), models.Notification{ExternalID: "TRX_PENDING"}, nil)

	assert.Equal(t, models.ReplyFailed, reply.Status)
	assert.Equal(t, "Transaction not validated", reply.Message)
	assert.Empty(t, h.outcomes.processings)
}

// A customer deactivated between phases fails the call but leaves the
// transaction VALIDATED so a later retry can succeed.
func TestProcessCustomerDeactivated(t *testing.T) {
	h := newHarness()
	h.svc.Validate(context.Background(), validNotification(), nil)
	h.customers.setStatus("cust-1", models.CustomerInactive)

	reply := h.svc.Process(context.Background(), models.Notification{ExternalID: "TRX1"}, nil)

	assert.Equal(t, models.ReplyFailed, reply.Status)
	assert.Equal(t, "Customer not found or inactive", reply.Message)

	tx, err := h.txs.GetByExternalID(context.Background(), "TRX1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusValidated, tx.Status)
	assert.Empty(t, h.outcomes.processings)

	// Reactivation unblocks the retry.
	h.customers.setStatus("cust-1", models.CustomerActive)
	reply = h.svc.Process(context.Background(), models.Notification{ExternalID: "TRX1"}, nil)
	assert.Equal(t, models.ReplySuccess, reply.Status)
}

func TestProcessAttachesSecondaryRef(t *testing.T) {
	h := newHarness()
	h.svc.Validate(context.Background(), validNotification(), nil)

	n := models.Notification{ExternalID: "TRX1", SecondaryRef: "MOB-771"}
	reply := h.svc.Process(context.Background(), n, nil)
	require.Equal(t, models.ReplySuccess, reply.Status)

	tx, err := h.txs.GetByExternalID(context.Background(), "TRX1")
	require.NoError(t, err)
	assert.Equal(t, "MOB-771", tx.SecondaryRef)
}

// racingTxRepo makes the phase-2 compare-and-set lose: by the time this call
// tries to claim the flip, a concurrent processor has already finished.
type racingTxRepo struct {
	*fakeTxRepo
	raced bool
}

func (r *racingTxRepo) SetStatus(ctx context.Context, externalID string, expected, next models.TransactionStatus) (bool, error) {
	if expected == models.StatusValidated && !r.raced {
		r.raced = true
		_, _ = r.fakeTxRepo.SetStatus(ctx, externalID, expected, models.StatusProcessed)
		return false, nil
	}
	return r.fakeTxRepo.SetStatus(ctx, externalID, expected, next)
}

// The loser of a concurrent process race resolves to the idempotent success
// and records no outcome of its own.
func TestProcessConcurrentLoserResolvesIdempotently(t *testing.T) {
	h := newHarness()
	racing := &racingTxRepo{fakeTxRepo: h.txs}
	svc := NewService(zap.NewNop(), racing, h.customers, h.outcomes, h.events, nil, rules())

	require.Equal(t, models.ReplySuccess,
		svc.Validate(context.Background(), validNotification(), nil).Status)

	reply := svc.Process(context.Background(), models.Notification{ExternalID: "TRX1"}, nil)

	assert.Equal(t, models.ReplySuccess, reply.Status)
	assert.Equal(t, "Transaction already processed", reply.Message)
	assert.Empty(t, h.outcomes.processings)
}

func TestProcessPublishesEvent(t *testing.T) {
	h := newHarness()
	h.svc.Validate(context.Background(), validNotification(), nil)
	h.svc.Process(context.Background(), models.Notification{ExternalID: "TRX1"}, nil)

	require.Len(t, h.events.events, 2)
	assert.Equal(t, models.EventProcessed, h.events.events[1].Type)
	assert.Equal(t, "TRX1", h.events.events[1].ExternalID)
}

// A failing payment whose VALIDATED -> FAILED flip loses to a concurrent
// caller must not record a second outcome: whoever won the flip already did.
func TestFailPaymentConcurrentLoserRecordsNothing(t *testing.T) {
	h := newHarness()
	require.Equal(t, models.ReplySuccess,
		h.svc.Validate(context.Background(), validNotification(), nil).Status)
	h.outcomes.validations = nil
	h.events.events = nil

	// Concurrent failer already moved the transaction to FAILED.
	flipped, err := h.txs.SetStatus(context.Background(), "TRX1", models.StatusValidated, models.StatusFailed)
	require.NoError(t, err)
	require.True(t, flipped)

	payErr := errors.E(errors.Internal, "settlement declined")
	reply := h.svc.failPayment(context.Background(), "TRX1", nil, payErr, time.Now().UTC())

	assert.Equal(t, models.ReplyFailed, reply.Status)
	assert.Equal(t, "Payment processing failed", reply.Message)
	assert.Empty(t, h.outcomes.processings)
	assert.Empty(t, h.events.events)
}

// When the lost flip turns out to be a concurrent processor finishing first,
// the failing caller resolves to the idempotent success instead.
func TestFailPaymentConcurrentProcessorResolvesIdempotently(t *testing.T) {
	h := newHarness()
	require.Equal(t, models.ReplySuccess,
		h.svc.Validate(context.Background(), validNotification(), nil).Status)

	flipped, err := h.txs.SetStatus(context.Background(), "TRX1", models.StatusValidated, models.StatusProcessed)
	require.NoError(t, err)
	require.True(t, flipped)

	payErr := errors.E(errors.Internal, "settlement declined")
	reply := h.svc.failPayment(context.Background(), "TRX1", nil, payErr, time.Now().UTC())

	assert.Equal(t, models.ReplySuccess, reply.Status)
	assert.Equal(t, "Transaction already processed", reply.Message)
	assert.Empty(t, h.outcomes.processings)
}
