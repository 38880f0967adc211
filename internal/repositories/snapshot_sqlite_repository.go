package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitfunnel/pkg/utils"
)

type SQLiteSnapshotRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db, now: time.Now}
}

func (r *SQLiteSnapshotRepository) Save(ctx context.Context, clientID, key string, payload []byte, ttl time.Duration) error {
	now := r.now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO client_snapshots (client_id, key, payload, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(client_id, key) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		clientID, key, string(payload), expiryFrom(now, ttl), now.Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *SQLiteSnapshotRepository) Load(ctx context.Context, clientID, key string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `
		SELECT payload FROM client_snapshots
		WHERE client_id = ? AND key = ? AND (expires_at = 0 OR expires_at > ?)`,
		clientID, key, r.now().Unix()).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return []byte(payload), nil
}
