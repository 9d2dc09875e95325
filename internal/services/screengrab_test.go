package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/screengrabber-backend/internal/cache"
	"github.com/yungbote/screengrabber-backend/internal/clients/statusapi"
	"github.com/yungbote/screengrabber-backend/internal/domain"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

type fakeStore struct {
	mu        sync.Mutex
	grabs     map[string]domain.Screengrab
	media     []domain.ScreengrabMedia
	lookupErr error
	upsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{grabs: map[string]domain.Screengrab{}}
}

func (f *fakeStore) key(owner, content string) string { return owner + "/" + content }

func (f *fakeStore) LookupScreengrab(ctx context.Context, ownerID, contentID string) (*domain.Screengrab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	rec, ok := f.grabs[f.key(ownerID, contentID)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeStore) UpsertScreengrab(ctx context.Context, ownerID, contentID, storageKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.grabs[f.key(ownerID, contentID)] = domain.Screengrab{
		OwnerID:    ownerID,
		ContentID:  contentID,
		CachedAt:   time.Now().UTC(),
		StorageKey: storageKey,
	}
	return nil
}

func (f *fakeStore) AddMedia(ctx context.Context, contentID, storageKey, sourceURL, mediaType string, metadata datatypes.JSON) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media = append(f.media, domain.ScreengrabMedia{
		ContentID:  contentID,
		StorageKey: storageKey,
		SourceURL:  sourceURL,
		MediaType:  mediaType,
	})
	return nil
}

func (f *fakeStore) ListMedia(ctx context.Context, contentID string) ([]domain.ScreengrabMedia, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ScreengrabMedia
	for _, m := range f.media {
		if m.ContentID == contentID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeStorage() *fakeStorage { return &fakeStorage{objects: map[string][]byte{}} }

func (f *fakeStorage) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) PublicURL(key string) string { return "https://cdn.test/" + key }

type fakeRenderer struct {
	calls int
	out   []byte
	err   error
}

func (f *fakeRenderer) Screenshot(ctx context.Context, pageURL string, width int) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fakeStatusAPI struct {
	status *statusapi.Status
	err    error
}

func (f *fakeStatusAPI) GetStatus(ctx context.Context, account, statusID string) (*statusapi.Status, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

func (f *fakeStatusAPI) FetchMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	return nil, errors.New("not used")
}

type fakeMosaics struct {
	calls int
	key   string
	err   error
}

func (f *fakeMosaics) BuildAndStore(ctx context.Context, contentID string, media []statusapi.MediaDescriptor) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.key, nil
}

func testService(t *testing.T, store cache.Store, storage *fakeStorage, rend *fakeRenderer, api *fakeStatusAPI, mosaics MosaicService, ttl time.Duration) ScreengrabService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	var apiClient statusapi.Client
	if api != nil {
		apiClient = api
	}
	return NewScreengrabService(log, store, storage, rend, apiClient, mosaics, ScreengrabConfig{
		SelfBaseURL: "http://localhost:8080",
		RenderWidth: 600,
		CacheTTL:    ttl,
	})
}

func TestMissRendersUploadsAndCaches(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	rend := &fakeRenderer{out: []byte("pngbytes")}

	svc := testService(t, store, storage, rend, nil, nil, time.Hour)
	got, err := svc.GetOrRender(context.Background(), "jack", "20")
	if err != nil {
		t.Fatalf("get or render: %v", err)
	}
	if got.FromCache {
		t.Fatal("first call must be a miss")
	}
	if !strings.Contains(got.StorageKey, "20") {
		t.Fatalf("storage key should reference the status id: %q", got.StorageKey)
	}
	if string(got.Image) != "pngbytes" {
		t.Fatalf("image bytes: got=%q", got.Image)
	}
	if _, ok := storage.objects[got.StorageKey]; !ok {
		t.Fatal("render was not uploaded")
	}
	if _, ok := store.grabs["jack/20"]; !ok {
		t.Fatal("render was not cached")
	}
}

func TestFreshCacheHitSkipsRenderer(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	rend := &fakeRenderer{out: []byte("pngbytes")}

	svc := testService(t, store, storage, rend, nil, nil, time.Hour)
	ctx := context.Background()
	if _, err := svc.GetOrRender(ctx, "jack", "20"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	got, err := svc.GetOrRender(ctx, "jack", "20")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !got.FromCache {
		t.Fatal("second call should hit the cache")
	}
	if rend.calls != 1 {
		t.Fatalf("renderer calls: got=%d want=1", rend.calls)
	}
	if string(got.Image) != "pngbytes" {
		t.Fatalf("cached image bytes: got=%q", got.Image)
	}
}

func TestStaleEntryRerenders(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	rend := &fakeRenderer{out: []byte("pngbytes")}

	// Zero TTL: every stored row reads as stale by the next call.
	svc := testService(t, store, storage, rend, nil, nil, 0)
	ctx := context.Background()
	if _, err := svc.GetOrRender(ctx, "jack", "20"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	got, err := svc.GetOrRender(ctx, "jack", "20")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got.FromCache {
		t.Fatal("zero TTL entry must not serve from cache")
	}
	if rend.calls != 2 {
		t.Fatalf("renderer calls: got=%d want=2", rend.calls)
	}
}

func TestCacheFailuresDoNotFailRequest(t *testing.T) {
	store := newFakeStore()
	store.lookupErr = errors.New("db down")
	store.upsertErr = errors.New("db down")
	storage := newFakeStorage()
	rend := &fakeRenderer{out: []byte("pngbytes")}

	svc := testService(t, store, storage, rend, nil, nil, time.Hour)
	got, err := svc.GetOrRender(context.Background(), "jack", "20")
	if err != nil {
		t.Fatalf("cache failures must not abort the request: %v", err)
	}
	if got.FromCache {
		t.Fatal("broken cache reads degrade to a miss")
	}
}

func TestRendererFailureIsFatal(t *testing.T) {
	svc := testService(t, newFakeStore(), newFakeStorage(), &fakeRenderer{err: errors.New("browser crashed")}, nil, nil, time.Hour)
	if _, err := svc.GetOrRender(context.Background(), "jack", "20"); err == nil {
		t.Fatal("renderer failure must fail the request")
	}
}

func TestUploadFailureIsFatal(t *testing.T) {
	storage := newFakeStorage()
	storage.putErr = errors.New("bucket gone")
	svc := testService(t, newFakeStore(), storage, &fakeRenderer{out: []byte("x")}, nil, nil, time.Hour)
	if _, err := svc.GetOrRender(context.Background(), "jack", "20"); err == nil {
		t.Fatal("primary upload failure must fail the request")
	}
}

func multiImageStatus() *statusapi.Status {
	return &statusapi.Status{
		UserName: "jack",
		Media: []statusapi.MediaDescriptor{
			{URL: "https://pbs.test/1.jpg", Type: "image", Size: statusapi.MediaSize{Width: 100, Height: 100}},
			{URL: "https://pbs.test/2.jpg", Type: "image", Size: statusapi.MediaSize{Width: 102, Height: 100}},
		},
	}
}

func TestMosaicAttachedForMultiImageStatus(t *testing.T) {
	mosaics := &fakeMosaics{key: "twitter/mosaics/20.png"}
	api := &fakeStatusAPI{status: multiImageStatus()}
	svc := testService(t, newFakeStore(), newFakeStorage(), &fakeRenderer{out: []byte("x")}, api, mosaics, time.Hour)

	got, err := svc.GetOrRender(context.Background(), "jack", "20")
	if err != nil {
		t.Fatalf("get or render: %v", err)
	}
	if mosaics.calls != 1 {
		t.Fatalf("mosaic calls: got=%d want=1", mosaics.calls)
	}
	if got.MosaicKey != "twitter/mosaics/20.png" {
		t.Fatalf("mosaic key: got=%q", got.MosaicKey)
	}
	if got.MosaicURL == "" {
		t.Fatal("mosaic url should be populated")
	}
}

func TestMosaicFailureSkipped(t *testing.T) {
	mosaics := &fakeMosaics{err: errors.New("decode failed")}
	api := &fakeStatusAPI{status: multiImageStatus()}
	svc := testService(t, newFakeStore(), newFakeStorage(), &fakeRenderer{out: []byte("x")}, api, mosaics, time.Hour)

	got, err := svc.GetOrRender(context.Background(), "jack", "20")
	if err != nil {
		t.Fatalf("mosaic failure must not fail the request: %v", err)
	}
	if got.MosaicKey != "" {
		t.Fatal("failed mosaic must not be attached")
	}
}

func TestSingleImageStatusSkipsMosaic(t *testing.T) {
	mosaics := &fakeMosaics{key: "unused"}
	api := &fakeStatusAPI{status: &statusapi.Status{
		Media: []statusapi.MediaDescriptor{
			{URL: "https://pbs.test/1.jpg", Type: "image", Size: statusapi.MediaSize{Width: 100, Height: 100}},
		},
	}}
	svc := testService(t, newFakeStore(), newFakeStorage(), &fakeRenderer{out: []byte("x")}, api, mosaics, time.Hour)

	if _, err := svc.GetOrRender(context.Background(), "jack", "20"); err != nil {
		t.Fatalf("get or render: %v", err)
	}
	if mosaics.calls != 0 {
		t.Fatalf("mosaic must not run for a single image, calls=%d", mosaics.calls)
	}
}
