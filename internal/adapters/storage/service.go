// Package storage archives uploaded photos in S3-compatible object storage.
package storage

import (
	"context"
)

// PhotoArchive stores uploaded images and returns the object key.
type PhotoArchive interface {
	Save(ctx context.Context, folder, fileName, contentType string, data []byte) (string, error)
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketClassificationPhotos() string
	IsMinIOEnabled() bool
}
