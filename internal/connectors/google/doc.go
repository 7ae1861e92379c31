// Package google provides shared infrastructure for the Cloud Storage lister.
//
// This package contains:
//   - Service factory for the Cloud Storage JSON API client
//   - Application Default Credentials token source
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting for listing requests
//
// # Usage
//
//	ts, err := google.DefaultTokenSource(ctx)
//	svc, err := google.NewStorageService(ctx, google.StorageOptions{TokenSource: ts})
//	lister := gcs.NewLister(svc, google.NewRateLimiter())
//
// # OAuth2 Scopes
//
// Listing only needs https://www.googleapis.com/auth/devstorage.read_only.
// Public buckets can be listed without credentials (--anonymous).
package google
