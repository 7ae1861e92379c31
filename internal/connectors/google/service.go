package google

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"
)

// StorageOptions controls how the Cloud Storage client is built.
type StorageOptions struct {
	// TokenSource authenticates requests. Nil means anonymous access,
	// which only works for public buckets.
	TokenSource oauth2.TokenSource

	// Endpoint overrides the API base URL (emulators and tests).
	Endpoint string

	// HTTPClient overrides the transport. Used with anonymous access.
	HTTPClient *http.Client
}

// NewStorageService creates a Cloud Storage JSON API service.
func NewStorageService(ctx context.Context, opts StorageOptions) (*storage.Service, error) {
	var clientOpts []option.ClientOption
	switch {
	case opts.TokenSource != nil:
		clientOpts = append(clientOpts, option.WithTokenSource(opts.TokenSource))
	case opts.HTTPClient != nil:
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	default:
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}
	return storage.NewService(ctx, clientOpts...)
}
