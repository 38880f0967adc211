package repositories

import (
	"context"
	"time"
)

// SnapshotRepositoryInterface stores opaque per-client payloads. Load returns
// utils.ErrSnapshotNotFound when nothing (unexpired) is stored under the key.
type SnapshotRepositoryInterface interface {
	Save(ctx context.Context, clientID, key string, payload []byte, ttl time.Duration) error
	Load(ctx context.Context, clientID, key string) ([]byte, error)
}

func expiryFrom(now time.Time, ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return now.Add(ttl).Unix()
}
