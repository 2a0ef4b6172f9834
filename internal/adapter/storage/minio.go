package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/webike/rentals/internal/config"
	"github.com/webike/rentals/internal/core/ports"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var errNotConfigured = errors.New("object storage not configured")

// MinioStorage stores bike images in an S3-compatible bucket. A missing or
// broken configuration leaves the adapter in a degraded-but-usable state:
// uploads fail (callers substitute a placeholder) and deletes are skipped.
type MinioStorage struct {
	client       *minio.Client
	bucket       string
	region       string
	accessDomain string
	useSSL       bool
	logger       ports.LoggerPort
}

func NewMinioStorage(cfg *config.Storage, logger ports.LoggerPort) *MinioStorage {
	s := &MinioStorage{
		bucket:       cfg.Bucket,
		region:       cfg.Region,
		accessDomain: cfg.AccessDomain,
		useSSL:       cfg.UseSSL,
		logger:       logger,
	}

	if cfg.Endpoint == "" || cfg.AccessKey == "" {
		logger.Warn("Object storage not configured, bike images will use placeholders", nil)
		return s
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		logger.Warn("Object storage init failed, bike images will use placeholders", map[string]interface{}{
			"error": err.Error(),
		})
		return s
	}

	s.client = client
	return s
}

// EnsureBucket creates the bucket when it does not exist yet. Failures are
// reported but never fatal at startup.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	if s.client == nil {
		return errNotConfigured
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket check failed: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("bucket create failed: %w", err)
	}

	s.logger.Info("Bucket created", map[string]interface{}{
		"bucket": s.bucket,
	})
	return nil
}

func (s *MinioStorage) Upload(ctx context.Context, file io.Reader, filename, contentType string, size int64) (string, error) {
	if s.client == nil {
		return "", errNotConfigured
	}

	key := uuid.New().String() + strings.ToLower(path.Ext(filename))

	_, err := s.client.PutObject(ctx, s.bucket, key, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	fileURL := s.objectURL(key)
	s.logger.Info("File uploaded", map[string]interface{}{
		"key": key,
		"url": fileURL,
	})

	return fileURL, nil
}

func (s *MinioStorage) Delete(ctx context.Context, fileURL string) error {
	if s.client == nil {
		// Nothing of ours to delete; placeholder URLs never hit the store.
		return nil
	}

	idx := strings.LastIndex(fileURL, "/")
	if idx < 0 || idx == len(fileURL)-1 {
		return fmt.Errorf("malformed file URL: %s", fileURL)
	}
	key := fileURL[idx+1:]

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

func (s *MinioStorage) Available() bool {
	return s.client != nil
}

// objectURL prefers the public access domain over the API endpoint.
func (s *MinioStorage) objectURL(key string) string {
	if s.accessDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.accessDomain, key)
	}
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, key)
}
