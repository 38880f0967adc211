package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fitfunnel/internal/models/db_models"
	"fitfunnel/pkg/utils"
)

type SnapshotRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, now: time.Now}
}

func (r *SnapshotRepository) Save(ctx context.Context, clientID, key string, payload []byte, ttl time.Duration) error {
	row := db_models.ClientSnapshot{
		ClientID:  clientID,
		Key:       key,
		Payload:   string(payload),
		ExpiresAt: expiryFrom(r.now(), ttl),
	}

	if err := upsertSnapshot(r.db.WithContext(ctx), &row).Error; err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *SnapshotRepository) Load(ctx context.Context, clientID, key string) ([]byte, error) {
	var row db_models.ClientSnapshot
	if err := findLiveSnapshot(r.db.WithContext(ctx), clientID, key, r.now(), &row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return []byte(row.Payload), nil
}

// upsertSnapshot inserts row or overwrites the payload and expiry of the
// existing (client_id, key) row.
func upsertSnapshot(tx *gorm.DB, row *db_models.ClientSnapshot) *gorm.DB {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
	}).Create(row)
}

func findLiveSnapshot(tx *gorm.DB, clientID, key string, now time.Time, row *db_models.ClientSnapshot) *gorm.DB {
	return tx.
		Where("client_id = ? AND key = ?", clientID, key).
		Where("expires_at = 0 OR expires_at > ?", now.Unix()).
		First(row)
}
