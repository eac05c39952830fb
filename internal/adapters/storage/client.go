package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOPhotoStore implements PhotoArchive on a single MinIO bucket.
type MinIOPhotoStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOPhotoStore creates the client; it does not touch the network.
func NewMinIOPhotoStore(cfg Config) (*MinIOPhotoStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOPhotoStore{client: client, bucket: cfg.GetMinioBucketClassificationPhotos()}, nil
}

// EnsureBucket creates the photo bucket if it doesn't exist.
func (s *MinIOPhotoStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Save uploads an image under folder and returns its object key.
func (s *MinIOPhotoStore) Save(ctx context.Context, folder, fileName, contentType string, data []byte) (string, error) {
	if err := ValidateImage(contentType, int64(len(data))); err != nil {
		return "", err
	}

	key := ObjectKey(folder, fileName, contentType)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: NormalizeContentType(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo %s: %w", key, err)
	}
	return key, nil
}
