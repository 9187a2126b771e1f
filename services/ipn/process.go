package ipn

import (
	// Go Internal Packages
	"context"
	"fmt"
	"time"

	// Local Packages
	errors "ipn-gateway/errors"
	models "ipn-gateway/models"

	// External Packages
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Process is phase 2 of the lifecycle: VALIDATED -> PROCESSED, or an
// idempotent no-op when the transaction is already PROCESSED. The status
// flip is a compare-and-set claimed *before* the outcome row is written, so
// two concurrent process calls for the same id can never both record a
// ProcessingOutcome: the loser re-reads and resolves to the idempotent
// success.
func (s *Service) Process(ctx context.Context, n models.Notification, raw []byte) models.Reply {
	if n.ExternalID == "" {
		s.logger.Warn("processing request missing transaction id")
		return models.FailedReply(msgMissingTxID, "unknown")
	}

	tx, err := s.txRepo.GetByExternalID(ctx, n.ExternalID)
	if err != nil {
		if errors.Is(errors.NotFound, err) {
			return models.FailedReply(msgTxNotFound, n.ExternalID)
		}
		return s.internalFailure(ctx, "process", n.ExternalID, raw, err)
	}

	// Idempotency guarantee: no new outcome row, no mutation.
	if tx.Status == models.StatusProcessed {
		s.logger.Info("transaction already processed", zap.String("transaction_id", n.ExternalID))
		return models.SuccessReply(msgAlreadyProcessed, n.ExternalID)
	}

	if tx.Status != models.StatusValidated {
		s.logger.Warn("transaction not validated",
			zap.String("transaction_id", n.ExternalID),
			zap.String("status", string(tx.Status)))
		return models.FailedReply(msgTxNotValidated, n.ExternalID)
	}

	// Re-verify the owning customer against current directory state. On
	// failure the transaction stays VALIDATED: this is a verification of
	// present state, not a defect in the stored data, and a later retry may
	// succeed once the customer is reactivated.
	customer, err := s.customers.GetByID(ctx, tx.CustomerID)
	if err != nil {
		if errors.Is(errors.NotFound, err) {
			return models.FailedReply(msgCustomerNotFound, n.ExternalID)
		}
		return s.internalFailure(ctx, "process", n.ExternalID, raw, err)
	}
	if customer.Status != models.CustomerActive {
		s.logger.Warn("customer no longer active",
			zap.String("transaction_id", n.ExternalID),
			zap.String("customer_id", customer.ID))
		return models.FailedReply(msgCustomerNotFound, n.ExternalID)
	}

	// The secondary reference is persisted immediately, independent of the
	// processing outcome below.
	if n.SecondaryRef != "" {
		if err := s.txRepo.AttachSecondaryRef(ctx, n.ExternalID, n.SecondaryRef); err != nil {
			return s.internalFailure(ctx, "process", n.ExternalID, raw, err)
		}
	}

	now := time.Now().UTC()
	message, payErr := s.executePayment(tx, customer)
	if payErr != nil {
		return s.failPayment(ctx, n.ExternalID, raw, payErr, now)
	}

	flipped, err := s.txRepo.SetStatus(ctx, n.ExternalID, models.StatusValidated, models.StatusProcessed)
	if err != nil {
		return s.internalFailure(ctx, "process", n.ExternalID, raw, err)
	}
	if !flipped {
		// A concurrent processor won the compare-and-set. Re-read once: if
		// it finished, this call resolves idempotently; otherwise surface
		// the conflict rather than silently losing it.
		current, err := s.txRepo.GetByExternalID(ctx, n.ExternalID)
		if err != nil {
			return s.internalFailure(ctx, "process", n.ExternalID, raw, err)
		}
		if current.Status == models.StatusProcessed {
			return models.SuccessReply(msgAlreadyProcessed, n.ExternalID)
		}
		return models.FailedReply(msgTxNotValidated, n.ExternalID)
	}

	outcome := models.ProcessingOutcome{
		ID:         uuid.NewString(),
		ExternalID: n.ExternalID,
		Success:    true,
		Message:    message,
		RecordedAt: now,
	}
	if err := s.outcomes.InsertProcessing(ctx, outcome); err != nil {
		return s.internalFailure(ctx, "process", n.ExternalID, raw, err)
	}

	s.publish(ctx, models.LifecycleEvent{
		Type:       models.EventProcessed,
		ExternalID: n.ExternalID,
		BillRef:    tx.BillRef,
		Amount:     tx.Amount,
		Currency:   tx.Currency,
		Status:     models.StatusProcessed,
		Message:    message,
		OccurredAt: now,
	})

	s.logger.Info("transaction processed", zap.String("transaction_id", n.ExternalID))
	reply := models.SuccessReply(msgProcessed, n.ExternalID)
	reply.Extra = map[string]string{
		"billRef":      tx.BillRef,
		"amount":       tx.Amount,
		"currency":     tx.Currency,
		"customerName": customer.FullName,
		"msisdn":       customer.Msisdn,
	}
	return reply
}

// executePayment runs the business payment step. There is no downstream
// settlement signal in this system, so the step succeeds deterministically;
// the error return keeps the failure edge (VALIDATED -> FAILED) reachable
// for when a real settlement call lands here.
func (s *Service) executePayment(tx *models.MongoTransaction, customer *models.Customer) (string, error) {
	return fmt.Sprintf("Payment of %s %s processed for %s", tx.Amount, tx.Currency, customer.FullName), nil
}

// failPayment records a failed ProcessingOutcome and drops the transaction
// to the terminal FAILED state.
func (s *Service) failPayment(ctx context.Context, externalID string, raw []byte, payErr error, now time.Time) models.Reply {
	s.logger.Error("payment step failed", zap.String("transaction_id", externalID), zap.Error(payErr))

	flipped, err := s.txRepo.SetStatus(ctx, externalID, models.StatusValidated, models.StatusFailed)
	if err != nil {
		return s.internalFailure(ctx, "process", externalID, raw, err)
	}
	if !flipped {
		// A concurrent caller resolved the transaction first. Whoever won
		// the compare-and-set already recorded the outcome; never write a
		// second row here.
		current, err := s.txRepo.GetByExternalID(ctx, externalID)
		if err != nil {
			return s.internalFailure(ctx, "process", externalID, raw, err)
		}
		if current.Status == models.StatusProcessed {
			return models.SuccessReply(msgAlreadyProcessed, externalID)
		}
		return models.FailedReply(msgPaymentFailed, externalID)
	}

	outcome := models.ProcessingOutcome{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		Success:    false,
		Message:    payErr.Error(),
		RecordedAt: now,
	}
	if err := s.outcomes.InsertProcessing(ctx, outcome); err != nil {
		return s.internalFailure(ctx, "process", externalID, raw, err)
	}

	s.publish(ctx, models.LifecycleEvent{
		Type:       models.EventFailed,
		ExternalID: externalID,
		Status:     models.StatusFailed,
		Message:    payErr.Error(),
		OccurredAt: now,
	})
	return models.FailedReply(msgPaymentFailed, externalID)
}
