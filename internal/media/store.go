package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/logging"
)

// ErrStoreDisabled is returned when media operations are attempted without
// object storage configured
var ErrStoreDisabled = fmt.Errorf("media store is disabled")

// allowed image content types for post images
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store holds uploaded post images in an object storage bucket
type Store struct {
	client *minio.Client
	bucket string
	useSSL bool
}

// New creates a media store backed by MinIO-compatible object storage.
// Returns nil when no endpoint is configured; callers treat a nil store
// as media uploads being unavailable.
func New(cfg *config.MediaConfig) (*Store, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Media store disabled")
		return nil, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	logging.GetLogger().Info("Media store initialized")

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		useSSL: cfg.UseSSL,
	}, nil
}

// ValidContentType reports whether the content type is an accepted image type
func ValidContentType(contentType string) bool {
	return allowedContentTypes[strings.ToLower(contentType)]
}

// Upload stores an image and returns its object key and public URL.
// Object keys are random so uploaded filenames never collide.
func (s *Store) Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, string, error) {
	if s == nil || s.client == nil {
		return "", "", ErrStoreDisabled
	}
	if !ValidContentType(contentType) {
		return "", "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	key := "posts/" + uuid.NewString() + strings.ToLower(path.Ext(filename))

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}

	return key, s.PublicURL(key), nil
}

// Delete removes a stored image. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return ErrStoreDisabled
	}
	if key == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// PublicURL returns the public address of a stored object
func (s *Store) PublicURL(key string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.client.EndpointURL().Host, s.bucket, key)
}
