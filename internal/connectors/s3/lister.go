// Package s3 lists objects in S3-compatible stores for s3:// patterns.
package s3

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
)

// Scheme is the URL scheme served by this lister.
const Scheme = "s3"

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "s3.amazonaws.com"

// Config holds connection settings for an S3-compatible endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// Ensure Lister implements the interface.
var _ driven.ObjectLister = (*Lister)(nil)

// Lister lists objects recursively under a prefix.
type Lister struct {
	api *minio.Client
}

// NewLister creates a lister. Empty keys mean anonymous access.
func NewLister(cfg Config) (*Lister, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return &Lister{api: client}, nil
}

// ListObjects visits every object key under prefix. Directory markers
// (keys ending in "/") are listed like any other key.
func (l *Lister) ListObjects(ctx context.Context, bucket, prefix string, visit func(name string) error) error {
	// Cancelling stops minio's listing goroutine when we return early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}
	for obj := range l.api.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return fmt.Errorf("list s3://%s/%s: %w", bucket, prefix, obj.Err)
		}
		if err := visit(obj.Key); err != nil {
			return err
		}
	}
	return ctx.Err()
}
