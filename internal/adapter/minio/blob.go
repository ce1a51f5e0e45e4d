// Package minio implements the raw-copy blob store on an S3-compatible
// object store.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/couchcryptid/weather-ingest-service/internal/config"
)

// BlobStore writes canonical CSV objects into a single bucket.
// It implements ingest.BlobStore.
type BlobStore struct {
	client *miniogo.Client
	bucket string
	logger *slog.Logger
}

// New creates a client for the configured endpoint and bucket.
func New(cfg *config.Config, logger *slog.Logger) (*BlobStore, error) {
	client, err := miniogo.New(cfg.MinioEndpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &BlobStore{client: client, bucket: cfg.MinioBucket, logger: logger}, nil
}

// EnsureBucket creates the bucket if it does not exist yet. Called once at
// startup.
func (b *BlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", b.bucket, err)
	}
	if exists {
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.bucket, miniogo.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", b.bucket, err)
	}
	b.logger.Info("bucket created", "bucket", b.bucket)
	return nil
}

// Put stores one object. Re-putting an identical key overwrites it.
func (b *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)),
		miniogo.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	b.logger.Debug("object stored", "bucket", b.bucket, "key", key, "bytes", len(data))
	return nil
}

// Ping verifies the object store is reachable.
func (b *BlobStore) Ping(ctx context.Context) error {
	if _, err := b.client.BucketExists(ctx, b.bucket); err != nil {
		return fmt.Errorf("ping object store: %w", err)
	}
	return nil
}
