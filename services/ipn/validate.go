package ipn

import (
	// Go Internal Packages
	"context"
	"strings"
	"time"

	// Local Packages
	errors "ipn-gateway/errors"
	models "ipn-gateway/models"
	validators "ipn-gateway/validators"

	// External Packages
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Validate is phase 1 of the lifecycle. Checks run in a fixed order and each
// short-circuits: field presence, bill-ref syntax, reference type, customer
// directory, duplicate external id. Only when all pass is the transaction
// created (PENDING), its validation outcome recorded, and the status flipped
// to VALIDATED. No transaction is ever created on a failing path.
func (s *Service) Validate(ctx context.Context, n models.Notification, raw []byte) models.Reply {
	if n.ExternalID == "" || n.BillRef == "" || n.Amount == "" || n.Msisdn == "" {
		s.logger.Warn("validation request missing required fields", zap.String("transaction_id", n.ExternalID))
		return models.FailedReply(msgMissingFields, n.ExternalID)
	}

	if ok, detail := validators.ValidateBillRef(n.BillRef); !ok {
		return models.FailedReply("Invalid bill reference: "+detail, n.ExternalID)
	}

	refType := s.resolveRefType(n)
	if refType != "" {
		if ok, detail := validators.ValidateRefType(refType); !ok {
			return models.FailedReply("Invalid reference type: "+detail, n.ExternalID)
		}
		refType = strings.ToUpper(refType)
	}

	amount, err := decimal.NewFromString(n.Amount)
	if err != nil {
		return models.FailedReply(msgInvalidAmount, n.ExternalID)
	}

	customer, err := s.customers.FindActive(ctx, n.BillRef, refType, n.Msisdn)
	if err != nil {
		if errors.Is(errors.NotFound, err) {
			s.logger.Warn("customer lookup failed",
				zap.String("bill_ref", n.BillRef), zap.String("ref_type", refType))
			return models.FailedReply(msgCustomerNotFound, n.ExternalID)
		}
		return s.internalFailure(ctx, "validate", n.ExternalID, raw, err)
	}

	// Duplicate check before create. This is advisory: the unique index on
	// the external id is what actually closes the race between concurrent
	// validations of the same id.
	if _, err := s.txRepo.GetByExternalID(ctx, n.ExternalID); err == nil {
		s.logger.Warn("transaction already exists", zap.String("transaction_id", n.ExternalID))
		return models.FailedReply(msgAlreadyProcessed, n.ExternalID)
	} else if !errors.Is(errors.NotFound, err) {
		return s.internalFailure(ctx, "validate", n.ExternalID, raw, err)
	}

	if refType == "" {
		refType = s.rules.DefaultRefType
	}

	now := time.Now().UTC()
	tx := models.Transaction{
		ExternalID:     n.ExternalID,
		CustomerID:     customer.ID,
		BillRef:        n.BillRef,
		RefType:        refType,
		Amount:         amount,
		Currency:       defaultCurrency,
		Msisdn:         n.Msisdn,
		MerchantMsisdn: n.MerchantMsisdn,
		Status:         models.StatusPending,
		RawPayload:     string(raw),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.txRepo.Create(ctx, tx.Transform()); err != nil {
		if errors.Is(errors.Conflict, err) {
			return models.FailedReply(msgAlreadyProcessed, n.ExternalID)
		}
		return s.internalFailure(ctx, "validate", n.ExternalID, raw, err)
	}

	outcome := models.ValidationOutcome{
		ID:         uuid.NewString(),
		ExternalID: n.ExternalID,
		Success:    true,
		Message:    msgValidated,
		RecordedAt: now,
	}
	if err := s.outcomes.InsertValidation(ctx, outcome); err != nil {
		return s.internalFailure(ctx, "validate", n.ExternalID, raw, err)
	}

	flipped, err := s.txRepo.SetStatus(ctx, n.ExternalID, models.StatusPending, models.StatusValidated)
	if err != nil {
		return s.internalFailure(ctx, "validate", n.ExternalID, raw, err)
	}
	if !flipped {
		// The row was just created by this call, so a mismatch means a
		// concurrent writer got to it first. Re-read once before deciding.
		current, err := s.txRepo.GetByExternalID(ctx, n.ExternalID)
		if err != nil || current.Status != models.StatusValidated {
			return s.internalFailure(ctx, "validate", n.ExternalID, raw,
				errors.StaleStatusErr(n.ExternalID))
		}
	}

	s.publish(ctx, models.LifecycleEvent{
		Type:       models.EventValidated,
		ExternalID: n.ExternalID,
		BillRef:    n.BillRef,
		Amount:     amount.String(),
		Currency:   defaultCurrency,
		Status:     models.StatusValidated,
		OccurredAt: now,
	})

	s.logger.Info("transaction validated", zap.String("transaction_id", n.ExternalID))
	return models.SuccessReply(msgValidated, n.ExternalID)
}

// resolveRefType returns the explicit reference-type hint when the payload
// carries one; otherwise, for C2B notifications, it applies the configured
// bill-ref prefix rules. Anything else stays empty and defaults at creation.
func (s *Service) resolveRefType(n models.Notification) string {
	if n.RefType != "" {
		return n.RefType
	}
	if n.Type == typeC2B {
		return validators.InferRefType(n.BillRef, s.rules.RefTypePrefixes, s.rules.DefaultRefType)
	}
	return ""
}
