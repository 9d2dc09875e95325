// Package cache is the durable record of prior renders. It never decides
// freshness: lookups return whatever is stored and the caller compares
// CachedAt against its TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/screengrabber-backend/internal/domain"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

var (
	// ErrInvalidRecord means a required field was missing; nothing was
	// written.
	ErrInvalidRecord = errors.New("invalid cache record")
	// ErrStorageUnavailable wraps any failure to reach or commit the
	// backing store.
	ErrStorageUnavailable = errors.New("cache storage unavailable")
)

type Store interface {
	LookupScreengrab(ctx context.Context, ownerID, contentID string) (*domain.Screengrab, error)
	UpsertScreengrab(ctx context.Context, ownerID, contentID, storageKey string) error
	AddMedia(ctx context.Context, contentID, storageKey, sourceURL, mediaType string, metadata datatypes.JSON) error
	ListMedia(ctx context.Context, contentID string) ([]domain.ScreengrabMedia, error)
}

type store struct {
	db  *gorm.DB
	log *logger.Logger

	// Serializes all storage operations process-wide. Each call is one
	// short transaction, so callers queue rather than interleave.
	mu sync.Mutex
}

func NewStore(db *gorm.DB, baseLog *logger.Logger) Store {
	return &store{db: db, log: baseLog.With("store", "CacheStore")}
}

func (s *store) LookupScreengrab(ctx context.Context, ownerID, contentID string) (*domain.Screengrab, error) {
	if err := requireFields(map[string]string{"ownerID": ownerID, "contentID": contentID}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result *domain.Screengrab
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row domain.Screengrab
		if err := tx.
			Where("owner_id = ? AND content_id = ?", ownerID, contentID).
			First(&row).Error; err != nil {
			return err
		}
		result = &row
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: lookup screengrab: %v", ErrStorageUnavailable, err)
	}
	return result, nil
}

func (s *store) UpsertScreengrab(ctx context.Context, ownerID, contentID, storageKey string) error {
	if err := requireFields(map[string]string{
		"ownerID":    ownerID,
		"contentID":  contentID,
		"storageKey": storageKey,
	}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := domain.Screengrab{
		OwnerID:    ownerID,
		ContentID:  contentID,
		CachedAt:   time.Now().UTC(),
		StorageKey: storageKey,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "content_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"cached_at", "storage_key"}),
		}).Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("%w: upsert screengrab: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *store) AddMedia(ctx context.Context, contentID, storageKey, sourceURL, mediaType string, metadata datatypes.JSON) error {
	if err := requireFields(map[string]string{
		"contentID":  contentID,
		"storageKey": storageKey,
		"sourceURL":  sourceURL,
		"mediaType":  mediaType,
	}); err != nil {
		return err
	}
	if len(metadata) == 0 {
		metadata = datatypes.JSON([]byte("{}"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := domain.ScreengrabMedia{
		ContentID:  contentID,
		CachedAt:   time.Now().UTC(),
		StorageKey: storageKey,
		SourceURL:  sourceURL,
		MediaType:  mediaType,
		Metadata:   metadata,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("%w: add media: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *store) ListMedia(ctx context.Context, contentID string) ([]domain.ScreengrabMedia, error) {
	if err := requireFields(map[string]string{"contentID": contentID}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []domain.ScreengrabMedia
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.
			Where("content_id = ?", contentID).
			Order("id ASC").
			Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list media: %v", ErrStorageUnavailable, err)
	}
	return rows, nil
}

func requireFields(fields map[string]string) error {
	for name, val := range fields {
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%w: missing %s", ErrInvalidRecord, name)
		}
	}
	return nil
}
