package mongodb

import (
	// Go Internal Packages
	"context"

	// Local Packages
	errors "ipn-gateway/errors"
	models "ipn-gateway/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CustomerRepository reads the customer directory. The directory collaborator
// owns and mutates the data; this service never writes to it.
type CustomerRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewCustomerRepository(client *mongo.Client, database string) *CustomerRepository {
	return &CustomerRepository{client: client, database: database, collection: "customers"}
}

func (r *CustomerRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// FindActive returns the single active customer matching bill reference,
// reference type (when supplied) and payer msisdn.
func (r *CustomerRepository) FindActive(ctx context.Context, billRef, refType, msisdn string) (*models.Customer, error) {
	filter := bson.M{
		"bill_ref": billRef,
		"msisdn":   msisdn,
		"status":   models.CustomerActive,
	}
	if refType != "" {
		filter["ref_type"] = refType
	}

	var customer models.Customer
	err := r.coll().FindOne(ctx, filter).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, errors.CustomerNotFoundErr(billRef)
	}
	if err != nil {
		return nil, errors.E(errors.Internal, "find active customer", err)
	}
	return &customer, nil
}

// GetByID resolves a customer by its directory id. Used by phase 2 to
// re-verify the owning customer is still active.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, errors.E(errors.NotFound, "customer "+id+" not found")
	}
	if err != nil {
		return nil, errors.E(errors.Internal, "get customer", err)
	}
	return &customer, nil
}
