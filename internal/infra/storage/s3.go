package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/reservas-api/internal/config"
)

// ObjectStore keeps uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

type S3Store struct {
	client *s3.Client
	cfg    config.S3Config
}

func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	if !cfg.Enabled() {
		return nil, errors.New("s3 bucket not configured")
	}

	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		)
	}
	if cfg.Endpoint != "" {
		// MinIO / localstack
		opts.BaseEndpoint = aws.String(strings.TrimRight(cfg.Endpoint, "/"))
		opts.UsePathStyle = true
	}

	return &S3Store{client: s3.New(opts), cfg: cfg}, nil
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.Bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return PublicURL(s.cfg, key), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	return err
}

// PublicURL prefers S3_PUBLIC_BASE_URL (CDN), then the custom endpoint in
// path style, then the regional virtual-hosted URL.
func PublicURL(cfg config.S3Config, key string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL + "/" + key
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, key)
	}
}

var _ ObjectStore = (*S3Store)(nil)
