package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	mem "fitfunnel/pkg/memcache"
	"fitfunnel/pkg/utils"
)

// KVSnapshotRepository keeps snapshots in a mem.Store (in-process or Redis).
type KVSnapshotRepository struct {
	store mem.Store
}

func NewKVSnapshotRepository(store mem.Store) *KVSnapshotRepository {
	return &KVSnapshotRepository{store: store}
}

func snapshotKey(clientID, key string) string {
	return "snapshot:" + clientID + ":" + key
}

func (r *KVSnapshotRepository) Save(ctx context.Context, clientID, key string, payload []byte, ttl time.Duration) error {
	if err := r.store.Set(ctx, snapshotKey(clientID, key), payload, ttl); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *KVSnapshotRepository) Load(ctx context.Context, clientID, key string) ([]byte, error) {
	data, err := r.store.Get(ctx, snapshotKey(clientID, key))
	if errors.Is(err, mem.ErrMiss) {
		return nil, utils.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return data, nil
}
