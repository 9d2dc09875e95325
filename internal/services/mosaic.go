package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/yungbote/screengrabber-backend/internal/cache"
	"github.com/yungbote/screengrabber-backend/internal/clients/statusapi"
	"github.com/yungbote/screengrabber-backend/internal/mosaic"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
	"github.com/yungbote/screengrabber-backend/internal/platform/objstore"
)

// mediaFetchConcurrency bounds parallel downloads per composition.
const mediaFetchConcurrency = 4

type MosaicService interface {
	// BuildAndStore downloads the media, composes the mosaic, uploads it
	// and records the media rows. Returns the storage key of the mosaic.
	BuildAndStore(ctx context.Context, contentID string, media []statusapi.MediaDescriptor) (string, error)
}

type mosaicService struct {
	log      *logger.Logger
	store    cache.Store
	storage  objstore.Service
	api      statusapi.Client
	composer *mosaic.Composer
	opts     mosaic.Options
}

func NewMosaicService(
	log *logger.Logger,
	store cache.Store,
	storage objstore.Service,
	api statusapi.Client,
	composer *mosaic.Composer,
	opts mosaic.Options,
) MosaicService {
	return &mosaicService{
		log:      log.With("service", "MosaicService"),
		store:    store,
		storage:  storage,
		api:      api,
		composer: composer,
		opts:     opts,
	}
}

func (ms *mosaicService) BuildAndStore(ctx context.Context, contentID string, media []statusapi.MediaDescriptor) (string, error) {
	if len(media) == 0 {
		return "", mosaic.ErrNoImages
	}

	images, err := ms.fetchAll(ctx, media)
	if err != nil {
		return "", err
	}

	composed, err := ms.composer.Render(images, ms.opts)
	if err != nil {
		return "", fmt.Errorf("compose mosaic for %s: %w", contentID, err)
	}

	key := fmt.Sprintf("twitter/mosaics/%s.png", contentID)
	if err := ms.storage.Put(ctx, key, "image/png", bytes.NewReader(composed)); err != nil {
		return "", fmt.Errorf("upload mosaic for %s: %w", contentID, err)
	}

	// Cache rows are an optimization; losing them never fails the mosaic.
	for _, m := range media {
		meta, _ := json.Marshal(map[string]int{"width": m.Size.Width, "height": m.Size.Height})
		if err := ms.store.AddMedia(ctx, contentID, key, m.URL, m.Type, datatypes.JSON(meta)); err != nil {
			ms.log.Warn("Failed to record media row (ignored)", "content_id", contentID, "source_url", m.URL, "error", err)
		}
	}

	return key, nil
}

// fetchAll downloads all media concurrently while preserving input order.
func (ms *mosaicService) fetchAll(ctx context.Context, media []statusapi.MediaDescriptor) ([]mosaic.Image, error) {
	images := make([]mosaic.Image, len(media))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mediaFetchConcurrency)
	for i, m := range media {
		i, m := i, m
		g.Go(func() error {
			data, err := ms.api.FetchMedia(gctx, m.URL)
			if err != nil {
				return fmt.Errorf("fetch media %s: %w", m.URL, err)
			}
			images[i] = mosaic.Image{Data: data, Width: m.Size.Width, Height: m.Size.Height}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}
