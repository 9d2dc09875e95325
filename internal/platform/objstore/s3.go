package objstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

type s3Service struct {
	log          *logger.Logger
	client       *s3.Client
	bucket       string
	endpoint     string
	cdnDomain    string
	usePathStyle bool
}

func newS3Service(ctx context.Context, log *logger.Logger, cfg Config) (Service, error) {
	if strings.TrimSpace(cfg.S3AccessKeyID) == "" || strings.TrimSpace(cfg.S3SecretAccessKey) == "" {
		return nil, fmt.Errorf("s3 access key id and secret are required")
	}
	if strings.TrimSpace(cfg.S3Endpoint) == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config: %w", err)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.S3Endpoint), "/")
	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		options.BaseEndpoint = &endpoint
		options.UsePathStyle = cfg.S3UsePathStyle
	})

	return &s3Service{
		log:          log.With("service", "S3BucketService"),
		client:       client,
		bucket:       cfg.Bucket,
		endpoint:     endpoint,
		cdnDomain:    strings.TrimRight(cfg.CDNDomain, "/"),
		usePathStyle: cfg.S3UsePathStyle,
	}, nil
}

func (s *s3Service) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	if contentType == "" {
		contentType = contentTypeForKey(key)
	}
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 put object failed: %w", err)
	}
	return nil
}

func (s *s3Service) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object failed for %q: %w", key, err)
	}
	return out.Body, nil
}

func (s *s3Service) PublicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("%s/%s", s.cdnDomain, key)
	}
	escaped := (&url.URL{Path: key}).EscapedPath()
	escaped = strings.TrimPrefix(escaped, "/")
	if s.usePathStyle {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, escaped)
	}
	u, err := url.Parse(s.endpoint)
	if err != nil || u.Host == "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, escaped)
	}
	return fmt.Sprintf("%s://%s.%s/%s", u.Scheme, s.bucket, u.Host, escaped)
}
