package persist

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPruneInterval(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		retention time.Duration
		want      time.Duration
	}{
		{day, time.Hour},
		{30 * day, time.Hour},
		{12 * time.Hour, 30 * time.Minute},
		{time.Hour, time.Minute},
		{time.Second, time.Minute},
	}
	for _, tt := range tests {
		if got := pruneInterval(tt.retention); got != tt.want {
			t.Errorf("pruneInterval(%v) = %v, want %v", tt.retention, got, tt.want)
		}
	}
}

func TestExpiredFilter(t *testing.T) {
	cutoff := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := expiredFilter(cutoff)
	cond, ok := f["saved_at"].(bson.M)
	if !ok || len(f) != 1 {
		t.Fatalf("filter = %v, want only saved_at", f)
	}
	if got, ok := cond["$lt"].(time.Time); !ok || !got.Equal(cutoff) {
		t.Fatalf("saved_at condition = %v, want $lt %v", cond, cutoff)
	}
}
