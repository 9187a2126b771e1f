package ipn

import (
	// Go Internal Packages
	"context"
	"sync"
	"time"

	// Local Packages
	errors "ipn-gateway/errors"
	models "ipn-gateway/models"
)

type fakeTxRepo struct {
	mu  sync.Mutex
	txs map[string]*models.MongoTransaction
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{txs: make(map[string]*models.MongoTransaction)}
}

func (r *fakeTxRepo) Create(_ context.Context, tx models.MongoTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[tx.ExternalID]; ok {
		return errors.DuplicateTransactionErr(tx.ExternalID)
	}
	cp := tx
	r.txs[tx.ExternalID] = &cp
	return nil
}

func (r *fakeTxRepo) GetByExternalID(_ context.Context, externalID string) (*models.MongoTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[externalID]
	if !ok {
		return nil, errors.TransactionNotFoundErr(externalID)
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeTxRepo) SetStatus(_ context.Context, externalID string, expected, next models.TransactionStatus) (bool, error) {
	if !models.CanTransition(expected, next) {
		return false, errors.IllegalTransitionErr(externalID, string(expected), string(next))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[externalID]
	if !ok || tx.Status != expected {
		return false, nil
	}
	tx.Status = next
	tx.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *fakeTxRepo) AttachSecondaryRef(_ context.Context, externalID, secondaryRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[externalID]
	if !ok {
		return errors.TransactionNotFoundErr(externalID)
	}
	tx.SecondaryRef = secondaryRef
	tx.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*models.Customer
}

func newFakeCustomerRepo(customers ...models.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[string]*models.Customer)}
	for _, c := range customers {
		cp := c
		r.customers[c.ID] = &cp
	}
	return r
}

func (r *fakeCustomerRepo) setStatus(id string, status models.CustomerStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.customers[id]; ok {
		c.Status = status
	}
}

func (r *fakeCustomerRepo) FindActive(_ context.Context, billRef, refType, msisdn string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.BillRef != billRef || c.Msisdn != msisdn || c.Status != models.CustomerActive {
			continue
		}
		if refType != "" && c.RefType != refType {
			continue
		}
		cp := *c
		return &cp, nil
	}
	return nil, errors.CustomerNotFoundErr(billRef)
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, errors.E(errors.NotFound, "customer "+id+" not found")
	}
	cp := *c
	return &cp, nil
}

type fakeOutcomeRepo struct {
	mu          sync.Mutex
	validations []models.ValidationOutcome
	processings []models.ProcessingOutcome
}

func (r *fakeOutcomeRepo) InsertValidation(_ context.Context, outcome models.ValidationOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validations = append(r.validations, outcome)
	return nil
}

func (r *fakeOutcomeRepo) InsertProcessing(_ context.Context, outcome models.ProcessingOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processings = append(r.processings, outcome)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []models.LifecycleEvent
}

func (f *fakeEvents) Publish(_ context.Context, event models.LifecycleEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}
