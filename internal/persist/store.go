package persist

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/merkator/randgen/internal/logger"
)

const (
	defaultDB      = "randgen"
	appName        = "randsrv"
	connectTimeout = 10 * time.Second
)

// Store holds the connection used for generator snapshots.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to uri and checks the server answers. The database is
// the URI path, e.g. mongodb://localhost:27017/dice, or "randgen" when the
// path is empty.
func NewStore(ctx context.Context, uri string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetAppName(appName).
		SetServerSelectionTimeout(connectTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect snapshot store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping snapshot store: %w", err)
	}

	name := dbName(uri)
	logger.Info("snapshot store ready", "db", name)
	return &Store{client: client, db: client.Database(name)}, nil
}

func dbName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDB
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		return name
	}
	return defaultDB
}

// Close disconnects, logging rather than returning a failure since it runs
// during shutdown.
func (s *Store) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		logger.Warn("snapshot store disconnect", "error", err)
	}
}

// DB returns the snapshot database.
func (s *Store) DB() *mongo.Database {
	return s.db
}

// Migrate creates the snapshot collections' indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if err := EnsureIndexes(ctx, s.db); err != nil {
		return fmt.Errorf("migrate snapshot store: %w", err)
	}
	return nil
}
