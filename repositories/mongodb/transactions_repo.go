package mongodb

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	errors "ipn-gateway/errors"
	models "ipn-gateway/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TransactionRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewTransactionRepository(client *mongo.Client, database string) *TransactionRepository {
	return &TransactionRepository{client: client, database: database, collection: "transactions"}
}

func (r *TransactionRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// Create inserts a new transaction. The external id is the document _id, so
// the insert is the atomic check-and-create: a concurrent validation of the
// same id loses with a duplicate-key error, surfaced as a Conflict.
func (r *TransactionRepository) Create(ctx context.Context, tx models.MongoTransaction) error {
	_, err := r.coll().InsertOne(ctx, tx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.DuplicateTransactionErr(tx.ExternalID)
		}
		return errors.E(errors.Internal, "insert transaction", err)
	}
	return nil
}

// GetByExternalID reads the current persisted state of a transaction.
func (r *TransactionRepository) GetByExternalID(ctx context.Context, externalID string) (*models.MongoTransaction, error) {
	var tx models.MongoTransaction
	err := r.coll().FindOne(ctx, bson.M{"_id": externalID}).Decode(&tx)
	if err == mongo.ErrNoDocuments {
		return nil, errors.TransactionNotFoundErr(externalID)
	}
	if err != nil {
		return nil, errors.E(errors.Internal, "get transaction", err)
	}
	return &tx, nil
}

// SetStatus flips the lifecycle status with a per-row compare-and-set: the
// update filter carries the expected prior status, so of two concurrent
// writers exactly one matches. Returns false when the expectation failed;
// the caller must re-read before deciding what that means. Edges the
// lifecycle does not allow are rejected here, regardless of the caller.
func (r *TransactionRepository) SetStatus(ctx context.Context, externalID string, expected, next models.TransactionStatus) (bool, error) {
	if !models.CanTransition(expected, next) {
		return false, errors.IllegalTransitionErr(externalID, string(expected), string(next))
	}

	filter := bson.M{"_id": externalID, "status": expected}
	update := bson.M{"$set": bson.M{"status": next, "updated_at": time.Now().UTC()}}

	res, err := r.coll().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, errors.E(errors.Internal, "set transaction status", err)
	}
	return res.ModifiedCount == 1, nil
}

// AttachSecondaryRef persists the settlement system's correlation id. This
// happens during phase 2 and is independent of the processing outcome.
func (r *TransactionRepository) AttachSecondaryRef(ctx context.Context, externalID, secondaryRef string) error {
	update := bson.M{"$set": bson.M{"secondary_ref": secondaryRef, "updated_at": time.Now().UTC()}}
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": externalID}, update)
	if err != nil {
		return errors.E(errors.Internal, "attach secondary ref", err)
	}
	if res.MatchedCount == 0 {
		return errors.TransactionNotFoundErr(externalID)
	}
	return nil
}
