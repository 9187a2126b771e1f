package mongodb

import (
	// Go Internal Packages
	"context"

	// Local Packages
	errors "ipn-gateway/errors"
	models "ipn-gateway/models"

	// External Packages
	"go.mongodb.org/mongo-driver/mongo"
)

// OutcomeRepository appends phase-attempt audit records. Rows are never
// updated or deleted; a transaction may accumulate many of each kind.
type OutcomeRepository struct {
	client      *mongo.Client
	database    string
	validations string
	processings string
}

func NewOutcomeRepository(client *mongo.Client, database string) *OutcomeRepository {
	return &OutcomeRepository{
		client:      client,
		database:    database,
		validations: "validation_outcomes",
		processings: "processing_outcomes",
	}
}

func (r *OutcomeRepository) InsertValidation(ctx context.Context, outcome models.ValidationOutcome) error {
	coll := r.client.Database(r.database).Collection(r.validations)
	if _, err := coll.InsertOne(ctx, outcome); err != nil {
		return errors.E(errors.Internal, "insert validation outcome", err)
	}
	return nil
}

func (r *OutcomeRepository) InsertProcessing(ctx context.Context, outcome models.ProcessingOutcome) error {
	coll := r.client.Database(r.database).Collection(r.processings)
	if _, err := coll.InsertOne(ctx, outcome); err != nil {
		return errors.E(errors.Internal, "insert processing outcome", err)
	}
	return nil
}
