package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrNotFound is returned when no snapshot exists for a key.
var ErrNotFound = errors.New("persist: snapshot not found")

// SnapshotInfo describes a stored snapshot without its state bytes.
type SnapshotInfo struct {
	Key        string    `json:"key"         bson:"key"`
	Profile    string    `json:"profile"     bson:"profile"`
	BufferSize int       `json:"bufferSize"  bson:"buffer_size"`
	Refills    int64     `json:"refills"     bson:"refills"`
	Digest     string    `json:"digest"      bson:"digest"`
	SavedAt    time.Time `json:"savedAt"     bson:"saved_at"`
}

// SnapshotReader abstracts read-only snapshot queries.
type SnapshotReader interface {
	LatestSnapshot(ctx context.Context, key string) (SnapshotInfo, error)
	SnapshotHistory(ctx context.Context, key string, limit int) ([]SnapshotInfo, error)
}

// MongoSnapshotReader implements SnapshotReader using a mongo.Database.
type MongoSnapshotReader struct {
	db *mongo.Database
}

// NewMongoSnapshotReader creates a new MongoSnapshotReader.
func NewMongoSnapshotReader(db *mongo.Database) *MongoSnapshotReader {
	return &MongoSnapshotReader{db: db}
}

var infoProjection = bson.M{"engine_state": 0, "source_state": 0}

// LatestSnapshot returns the current generator_state entry for key.
func (r *MongoSnapshotReader) LatestSnapshot(ctx context.Context, key string) (SnapshotInfo, error) {
	var info SnapshotInfo
	opts := options.FindOne().SetProjection(infoProjection)
	err := r.db.Collection(stateCollection).FindOne(ctx, bson.M{"key": key}, opts).Decode(&info)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return SnapshotInfo{}, ErrNotFound
	}
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("query snapshot: %w", err)
	}
	return info, nil
}

// SnapshotHistory returns the newest snapshot log entries for key.
func (r *MongoSnapshotReader) SnapshotHistory(ctx context.Context, key string, limit int) ([]SnapshotInfo, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	opts := options.Find().
		SetProjection(infoProjection).
		SetSort(bson.D{{Key: "saved_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.db.Collection(logCollection).Find(ctx, bson.M{"key": key}, opts)
	if err != nil {
		return nil, fmt.Errorf("query snapshot log: %w", err)
	}
	defer cursor.Close(ctx)

	out := []SnapshotInfo{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode snapshot log: %w", err)
	}
	return out, nil
}
