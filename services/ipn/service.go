package ipn

import (
	// Go Internal Packages
	"context"

	// Local Packages
	config "ipn-gateway/config"
	models "ipn-gateway/models"

	// External Packages
	"go.uber.org/zap"
)

// Reply messages are part of the gateway contract; the upstream matches on
// them, so they must not change.
const (
	msgMissingFields    = "Missing required fields"
	msgInvalidAmount    = "Invalid amount format"
	msgCustomerNotFound = "Customer not found or inactive"
	msgAlreadyProcessed = "Transaction already processed"
	msgValidated        = "Transaction validated successfully"
	msgMissingTxID      = "Missing transaction ID"
	msgTxNotFound       = "Transaction not found"
	msgTxNotValidated   = "Transaction not validated"
	msgProcessed        = "Transaction processed successfully"
	msgPaymentFailed    = "Payment processing failed"
	msgInternalError    = "Internal server error"

	defaultCurrency = "KES"
	typeC2B         = "C2B"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx models.MongoTransaction) error
	GetByExternalID(ctx context.Context, externalID string) (*models.MongoTransaction, error)
	SetStatus(ctx context.Context, externalID string, expected, next models.TransactionStatus) (bool, error)
	AttachSecondaryRef(ctx context.Context, externalID, secondaryRef string) error
}

type CustomerRepository interface {
	FindActive(ctx context.Context, billRef, refType, msisdn string) (*models.Customer, error)
	GetByID(ctx context.Context, id string) (*models.Customer, error)
}

type OutcomeRepository interface {
	InsertValidation(ctx context.Context, outcome models.ValidationOutcome) error
	InsertProcessing(ctx context.Context, outcome models.ProcessingOutcome) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.LifecycleEvent)
}

type DeadLetter interface {
	Store(ctx context.Context, externalID string, payload []byte)
}

// Service is the transaction lifecycle engine: it decides, for each inbound
// notification, whether it is new, a duplicate, validated, processed or
// invalid, and emits the reply the codec renders. It keeps no transaction
// state in process; every decision re-reads the persisted status.
type Service struct {
	logger     *zap.Logger
	txRepo     TransactionRepository
	customers  CustomerRepository
	outcomes   OutcomeRepository
	events     EventPublisher
	deadLetter DeadLetter
	rules      config.Validation
}

func NewService(logger *zap.Logger, txRepo TransactionRepository, customers CustomerRepository,
	outcomes OutcomeRepository, events EventPublisher, deadLetter DeadLetter, rules config.Validation) *Service {
	return &Service{
		logger:     logger,
		txRepo:     txRepo,
		customers:  customers,
		outcomes:   outcomes,
		events:     events,
		deadLetter: deadLetter,
		rules:      rules,
	}
}

// internalFailure resolves an unexpected collaborator error into the generic
// failed reply, after logging and dead-lettering the raw payload for replay.
// Nothing ever escapes to the transport layer as an unhandled fault.
func (s *Service) internalFailure(ctx context.Context, phase, externalID string, raw []byte, err error) models.Reply {
	s.logger.Error("unexpected failure",
		zap.String("phase", phase),
		zap.String("transaction_id", externalID),
		zap.Error(err))
	if s.deadLetter != nil {
		s.deadLetter.Store(ctx, externalID, raw)
	}
	return models.FailedReply(msgInternalError, externalID)
}

func (s *Service) publish(ctx context.Context, event models.LifecycleEvent) {
	if s.events != nil {
		s.events.Publish(ctx, event)
	}
}
