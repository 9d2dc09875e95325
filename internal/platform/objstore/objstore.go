// Package objstore stores and fetches rendered blobs by key. Providers are
// interchangeable: GCS (default), GCS against a local emulator, or any
// S3-compatible endpoint.
package objstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/screengrabber-backend/internal/platform/envutil"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

type Mode string

const (
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs-emulator"
	ModeS3          Mode = "s3"
)

type Service interface {
	// Put stores the blob under key. Keys are opaque to callers.
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	// Fetch returns the blob's bytes. Caller closes.
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
	// PublicURL is the externally reachable URL for a stored key.
	PublicURL(key string) string
}

type Config struct {
	Mode         Mode
	Bucket       string
	CDNDomain    string
	EmulatorHost string

	// S3 mode only.
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
}

func ConfigFromEnv() Config {
	return Config{
		Mode:              Mode(strings.ToLower(envutil.Str("OBJECT_STORAGE_MODE", string(ModeGCS)))),
		Bucket:            envutil.Str("STORAGE_BUCKET_NAME", ""),
		CDNDomain:         envutil.Str("STORAGE_CDN_DOMAIN", ""),
		EmulatorHost:      envutil.Str("STORAGE_EMULATOR_HOST", ""),
		S3Endpoint:        envutil.Str("S3_ENDPOINT_URL", ""),
		S3Region:          envutil.Str("S3_REGION_NAME", "auto"),
		S3AccessKeyID:     envutil.Str("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: envutil.Str("S3_SECRET_ACCESS_KEY", ""),
		S3UsePathStyle:    envutil.Bool("S3_USE_PATH_STYLE", true),
	}
}

func IsSupportedMode(m Mode) bool {
	switch m {
	case ModeGCS, ModeGCSEmulator, ModeS3:
		return true
	default:
		return false
	}
}

// New selects and bootstraps the provider for cfg.Mode.
func New(ctx context.Context, log *logger.Logger, cfg Config) (Service, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("object storage: bucket name is required")
	}
	if !IsSupportedMode(cfg.Mode) {
		return nil, fmt.Errorf("object storage: unsupported mode %q", cfg.Mode)
	}
	log.Info("Selecting object storage provider", "mode", cfg.Mode, "bucket", cfg.Bucket)

	switch cfg.Mode {
	case ModeGCS, ModeGCSEmulator:
		if cfg.Mode == ModeGCSEmulator && strings.TrimSpace(cfg.EmulatorHost) == "" {
			return nil, fmt.Errorf("object storage: mode %q requires STORAGE_EMULATOR_HOST", cfg.Mode)
		}
		return newGCSService(ctx, log, cfg)
	default:
		return newS3Service(ctx, log, cfg)
	}
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	default:
		return ""
	}
}
