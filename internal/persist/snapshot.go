package persist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/merkator/randgen/internal/logger"
	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/well512"
)

// stateDoc is the generator_state document. snapshot_log entries carry the
// same fields plus saved_at.
type stateDoc struct {
	Key         string    `bson:"key"`
	Profile     string    `bson:"profile"`
	BufferSize  int       `bson:"buffer_size"`
	Refills     int64     `bson:"refills"`
	EngineState []byte    `bson:"engine_state"`
	SourceState []byte    `bson:"source_state"`
	Digest      string    `bson:"digest"`
	SavedAt     time.Time `bson:"saved_at"`
}

// Snapshotter persists a Well512-backed generator so a restart continues the
// same sequence. Secure generators are never snapshotted: their buffer holds
// unread secret output.
type Snapshotter struct {
	store *Store
	key   string
	gen   *randgen.Locked
	src   *well512.Source
}

// NewSnapshotter creates a snapshotter for gen, whose provider must be src.
func NewSnapshotter(store *Store, key string, gen *randgen.Locked, src *well512.Source) *Snapshotter {
	return &Snapshotter{store: store, key: key, gen: gen, src: src}
}

// Run starts the periodic snapshot loop. Blocks until ctx is cancelled.
func (s *Snapshotter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final snapshot on shutdown
			logger.Info("performing final snapshot")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.Save(shutdownCtx); err != nil {
				logger.Error(err, "final snapshot failed")
			}
			cancel()
			return
		case <-ticker.C:
			if err := s.Save(ctx); err != nil {
				logger.Error(err, "snapshot failed")
			}
		}
	}
}

// capture reads engine and source state under the generator's lock so the
// two are consistent with each other.
func (s *Snapshotter) capture() (stateDoc, error) {
	doc := stateDoc{Key: s.key, Profile: string(randgen.ProfileFast)}
	var err error
	s.gen.Do(func(e *randgen.Engine) {
		doc.BufferSize = e.BufferSize()
		doc.Refills = int64(e.Refills())
		if doc.EngineState, err = e.MarshalBinary(); err != nil {
			return
		}
		doc.SourceState, err = s.src.MarshalBinary()
	})
	if err != nil {
		return stateDoc{}, fmt.Errorf("marshal generator: %w", err)
	}
	doc.Digest = digest(doc.EngineState, doc.SourceState)
	doc.SavedAt = time.Now()
	return doc, nil
}

// apply restores a captured state. The source is only replaced once the
// engine state has been accepted.
func (s *Snapshotter) apply(doc stateDoc) error {
	if doc.Digest != digest(doc.EngineState, doc.SourceState) {
		return fmt.Errorf("snapshot %s: digest mismatch", doc.Key)
	}
	var src well512.Source
	if err := src.UnmarshalBinary(doc.SourceState); err != nil {
		return fmt.Errorf("restore source: %w", err)
	}
	var err error
	s.gen.Do(func(e *randgen.Engine) {
		if err = e.UnmarshalBinary(doc.EngineState); err != nil {
			return
		}
		*s.src = src
	})
	if err != nil {
		return fmt.Errorf("restore engine: %w", err)
	}
	return nil
}

func digest(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Save persists the generator state and appends it to the snapshot log in a
// single transaction.
func (s *Snapshotter) Save(ctx context.Context) error {
	start := time.Now()

	doc, err := s.capture()
	if err != nil {
		return err
	}

	session, err := s.store.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc context.Context) (any, error) {
		db := s.store.db

		if _, err := db.Collection(stateCollection).UpdateOne(sc,
			bson.M{"key": s.key},
			bson.M{"$set": doc},
			options.UpdateOne().SetUpsert(true),
		); err != nil {
			return nil, fmt.Errorf("save generator state: %w", err)
		}

		if _, err := db.Collection(logCollection).InsertOne(sc, doc); err != nil {
			return nil, fmt.Errorf("append snapshot log: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("snapshot transaction: %w", err)
	}

	logger.Debug("snapshot saved", "key", s.key, "refills", doc.Refills, "took", time.Since(start))
	return nil
}

// Load restores the generator from MongoDB.
// Returns true if state was found and loaded, false for fresh start.
func (s *Snapshotter) Load(ctx context.Context) (bool, error) {
	var doc stateDoc
	err := s.store.db.Collection(stateCollection).FindOne(ctx, bson.M{"key": s.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		logger.Info("no persisted generator state found, starting fresh", "key", s.key)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load generator state: %w", err)
	}

	if err := s.apply(doc); err != nil {
		return false, err
	}
	logger.Info("restored generator state", "key", s.key, "refills", doc.Refills, "saved_at", doc.SavedAt.Format(time.RFC3339))
	return true, nil
}
