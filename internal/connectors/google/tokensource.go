package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/storage/v1"
)

// DefaultTokenSource returns a read-only Cloud Storage token source from
// Application Default Credentials (GOOGLE_APPLICATION_CREDENTIALS, gcloud
// user credentials, or the metadata server).
func DefaultTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	ts, err := googleoauth.DefaultTokenSource(ctx, storage.DevstorageReadOnlyScope)
	if err != nil {
		return nil, fmt.Errorf("find default credentials: %w", err)
	}
	return ts, nil
}
