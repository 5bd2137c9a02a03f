package persist

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/merkator/randgen/internal/logger"
)

const (
	stateCollection = "generator_state"
	logCollection   = "snapshot_log"
)

// EnsureIndexes creates idempotent indexes on all collections.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	type idx struct {
		collection string
		model      mongo.IndexModel
	}

	indexes := []idx{
		{
			collection: stateCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: logCollection,
			model: mongo.IndexModel{
				Keys: bson.D{
					{Key: "key", Value: 1},
					{Key: "saved_at", Value: -1},
				},
			},
		},
		{
			collection: logCollection,
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "saved_at", Value: 1}},
			},
		},
	}

	for _, i := range indexes {
		_, err := db.Collection(i.collection).Indexes().CreateOne(ctx, i.model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", i.collection, err)
		}
	}

	logger.Debug("MongoDB indexes ensured")
	return nil
}
