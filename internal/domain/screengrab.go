package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Screengrab records where a prior render of (owner, content) was stored.
// One row per key; re-renders overwrite in place. Freshness is decided by
// the caller against CachedAt, never here.
type Screengrab struct {
	OwnerID    string    `gorm:"type:text;primaryKey;index:idx_screengrab_owner" json:"owner_id"`
	ContentID  string    `gorm:"type:text;primaryKey" json:"content_id"`
	CachedAt   time.Time `gorm:"not null" json:"cached_at"`
	StorageKey string    `gorm:"type:text;not null" json:"storage_key"`
}

func (Screengrab) TableName() string { return "screengrabs" }

// ScreengrabMedia is one media attachment recorded for a content id.
// There is no uniqueness constraint beyond the row id: re-renders of the
// same content append fresh rows.
type ScreengrabMedia struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ContentID  string         `gorm:"type:text;not null;index:idx_screengrab_media_content" json:"content_id"`
	CachedAt   time.Time      `gorm:"not null" json:"cached_at"`
	StorageKey string         `gorm:"type:text;not null" json:"storage_key"`
	SourceURL  string         `gorm:"type:text;not null" json:"source_url"`
	MediaType  string         `gorm:"type:text;not null" json:"media_type"`
	Metadata   datatypes.JSON `gorm:"not null;default:'{}'" json:"metadata"`
}

func (ScreengrabMedia) TableName() string { return "screengrab_media" }
