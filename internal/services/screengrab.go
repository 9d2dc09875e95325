package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yungbote/screengrabber-backend/internal/cache"
	"github.com/yungbote/screengrabber-backend/internal/clients/renderer"
	"github.com/yungbote/screengrabber-backend/internal/clients/statusapi"
	"github.com/yungbote/screengrabber-backend/internal/platform/apierr"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
	"github.com/yungbote/screengrabber-backend/internal/platform/objstore"
)

type RenderResult struct {
	StorageKey string
	PublicURL  string
	Image      []byte
	FromCache  bool
	MosaicKey  string
	MosaicURL  string
}

type ScreengrabConfig struct {
	// SelfBaseURL is where the renderer reaches our /render pages.
	SelfBaseURL string
	// RenderWidth is the viewport width handed to the renderer.
	RenderWidth int
	// CacheTTL is the freshness window compared against CachedAt at read
	// time. Raising it retroactively revives older rows.
	CacheTTL time.Duration
}

type ScreengrabService interface {
	GetOrRender(ctx context.Context, account, statusID string) (*RenderResult, error)
}

type screengrabService struct {
	log      *logger.Logger
	store    cache.Store
	storage  objstore.Service
	renderer renderer.Client
	api      statusapi.Client
	mosaics  MosaicService
	cfg      ScreengrabConfig
	now      func() time.Time
}

func NewScreengrabService(
	log *logger.Logger,
	store cache.Store,
	storage objstore.Service,
	rendererClient renderer.Client,
	api statusapi.Client,
	mosaics MosaicService,
	cfg ScreengrabConfig,
) ScreengrabService {
	return &screengrabService{
		log:      log.With("service", "ScreengrabService"),
		store:    store,
		storage:  storage,
		renderer: rendererClient,
		api:      api,
		mosaics:  mosaics,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetOrRender serves a cached render when it is still fresh, otherwise
// renders, uploads and re-caches. The cache is a pure optimization: read
// failures degrade to a miss, write failures are logged and swallowed.
// Renderer and primary-upload failures are fatal to the request.
func (ss *screengrabService) GetOrRender(ctx context.Context, account, statusID string) (*RenderResult, error) {
	if cached := ss.fromCache(ctx, account, statusID); cached != nil {
		return cached, nil
	}

	pageURL := fmt.Sprintf("%s/render/%s/status/%s", ss.cfg.SelfBaseURL, account, statusID)
	grab, err := ss.renderer.Screenshot(ctx, pageURL, ss.cfg.RenderWidth)
	if err != nil {
		return nil, apierr.New(http.StatusBadGateway, "RENDER_FAILED", fmt.Errorf("render screengrab: %w", err))
	}

	key := fmt.Sprintf("twitter/renders/%s.png", statusID)
	if err := ss.storage.Put(ctx, key, "image/png", bytes.NewReader(grab)); err != nil {
		return nil, apierr.New(http.StatusBadGateway, "UPLOAD_FAILED", fmt.Errorf("upload screengrab: %w", err))
	}

	if err := ss.store.UpsertScreengrab(ctx, account, statusID, key); err != nil {
		ss.log.Warn("Failed to record screengrab in cache (ignored)",
			"owner_id", account, "content_id", statusID, "error", err)
	}

	result := &RenderResult{
		StorageKey: key,
		PublicURL:  ss.storage.PublicURL(key),
		Image:      grab,
	}
	ss.attachMosaic(ctx, account, statusID, result)
	return result, nil
}

func (ss *screengrabService) fromCache(ctx context.Context, account, statusID string) *RenderResult {
	rec, err := ss.store.LookupScreengrab(ctx, account, statusID)
	if err != nil {
		ss.log.Warn("Cache lookup failed, treating as miss",
			"owner_id", account, "content_id", statusID, "error", err)
		return nil
	}
	if rec == nil {
		return nil
	}
	if age := ss.now().Sub(rec.CachedAt); age > ss.cfg.CacheTTL {
		ss.log.Debug("Cached screengrab is stale",
			"owner_id", account, "content_id", statusID, "age", age.String())
		return nil
	}

	body, err := ss.storage.Fetch(ctx, rec.StorageKey)
	if err != nil {
		ss.log.Warn("Cached object fetch failed, re-rendering",
			"storage_key", rec.StorageKey, "error", err)
		return nil
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		ss.log.Warn("Cached object read failed, re-rendering",
			"storage_key", rec.StorageKey, "error", err)
		return nil
	}

	return &RenderResult{
		StorageKey: rec.StorageKey,
		PublicURL:  ss.storage.PublicURL(rec.StorageKey),
		Image:      data,
		FromCache:  true,
	}
}

// attachMosaic builds the multi-media mosaic when the status carries two or
// more images. Whether to continue without one on failure is our call as
// the caller, and we always continue: the primary render already succeeded.
func (ss *screengrabService) attachMosaic(ctx context.Context, account, statusID string, result *RenderResult) {
	if ss.mosaics == nil || ss.api == nil {
		return
	}
	status, err := ss.api.GetStatus(ctx, account, statusID)
	if err != nil {
		ss.log.Warn("Status metadata lookup failed, skipping mosaic",
			"owner_id", account, "content_id", statusID, "error", err)
		return
	}
	images := status.ImageMedia()
	if len(images) < 2 {
		return
	}
	key, err := ss.mosaics.BuildAndStore(ctx, statusID, images)
	if err != nil {
		ss.log.Warn("Mosaic composition failed, continuing without it",
			"content_id", statusID, "error", err)
		return
	}
	result.MosaicKey = key
	result.MosaicURL = ss.storage.PublicURL(key)
}
