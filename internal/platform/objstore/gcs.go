package objstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

type gcsService struct {
	log       *logger.Logger
	client    *storage.Client
	bucket    string
	cdnDomain string
}

func newGCSService(ctx context.Context, log *logger.Logger, cfg Config) (Service, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if cfg.Mode == ModeGCSEmulator {
		// The storage client picks the emulator up from
		// STORAGE_EMULATOR_HOST; no credentials needed against it.
		opts = append(opts, option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &gcsService{
		log:       log.With("service", "GCSBucketService"),
		client:    client,
		bucket:    cfg.Bucket,
		cdnDomain: strings.TrimRight(cfg.CDNDomain, "/"),
	}, nil
}

func (s *gcsService) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType == "" {
		contentType = contentTypeForKey(key)
	}
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (s *gcsService) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	// No local timeout here: the reader stays bound to ctx until the
	// caller closes it.
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS reader for %q: %w", key, err)
	}
	return r, nil
}

func (s *gcsService) PublicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}
