package persist

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/merkator/randgen/internal/logger"
)

// pruneInterval checks the snapshot log about 24 times per retention period,
// but never more often than every minute or less often than every hour.
func pruneInterval(retention time.Duration) time.Duration {
	return min(max(retention/24, time.Minute), time.Hour)
}

// expiredFilter matches snapshot log entries saved before cutoff. Only the
// log collection is trimmed; the latest state in generator_state stays.
func expiredFilter(cutoff time.Time) bson.M {
	return bson.M{"saved_at": bson.M{"$lt": cutoff}}
}

// RunRetention trims the snapshot history to entries newer than
// retentionDays. It returns at once when retentionDays <= 0 and otherwise
// blocks until ctx is cancelled.
func RunRetention(ctx context.Context, store *Store, retentionDays int) {
	if retentionDays <= 0 {
		logger.Info("snapshot history kept forever")
		return
	}
	retention := time.Duration(retentionDays) * 24 * time.Hour
	every := pruneInterval(retention)
	logger.Info("snapshot history retention", "keep", retention.String(), "check", every)

	trimHistory(ctx, store, retention)

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			trimHistory(ctx, store, retention)
		}
	}
}

func trimHistory(ctx context.Context, store *Store, retention time.Duration) {
	cutoff := time.Now().Add(-retention)
	res, err := store.db.Collection(logCollection).DeleteMany(ctx, expiredFilter(cutoff))
	if err != nil {
		logger.Error(err, "trim snapshot history")
		return
	}
	if res.DeletedCount > 0 {
		logger.Debug("trimmed snapshot history", "removed", res.DeletedCount, "cutoff", cutoff.UTC().Format(time.RFC3339))
	}
}
