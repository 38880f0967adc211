package db_models

// ClientSnapshot is one cached value for a browser client. Each client has
// at most one row per key.
type ClientSnapshot struct {
	BaseModel
	ClientID  string `gorm:"size:64;not null;uniqueIndex:idx_client_key"`
	Key       string `gorm:"size:64;not null;uniqueIndex:idx_client_key"`
	Payload   string `gorm:"type:text;not null"`
	ExpiresAt int64  `gorm:"index"` // unix seconds, 0 = never
}

func (ClientSnapshot) TableName() string {
	return "client_snapshots"
}
