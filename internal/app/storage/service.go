/*
Package storage provides the object-storage boundary for photo uploads.
Clients upload directly to S3-compatible storage via presigned URLs; the
messaging core only ever sees validated attachment keys.
*/
package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// PhotoStorage defines the public interface for the photo storage service.
type PhotoStorage interface {
	// PresignUpload generates a pre-signed URL for uploading a photo.
	PresignUpload(
		ctx context.Context,
		key string,
		mimeType string,
		fileSize int64,
		duration time.Duration,
	) (string, error)

	// PresignDownload generates a pre-signed URL for downloading a photo.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the object stored under the given key.
	Delete(ctx context.Context, key string) error
}

// NewPhotoStorage initializes and returns the S3-backed implementation.
func NewPhotoStorage(cfg ServiceConfig) (PhotoStorage, error) {
	return newS3Client(cfg)
}
