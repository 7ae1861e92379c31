package driven

import "context"

// ObjectLister enumerates object names in a bucket.
// Implemented per object store scheme (gs, s3) and in memory for tests.
type ObjectLister interface {
	// ListObjects calls visit for every object whose name starts with prefix.
	// Names are relative to the bucket. Listing stops at the first error
	// returned by visit, which is passed back to the caller.
	ListObjects(ctx context.Context, bucket, prefix string, visit func(name string) error) error
}

// ListerFactory resolves the lister for a URL scheme such as "gs" or "s3".
type ListerFactory interface {
	// Lister returns the lister for scheme, or domain.ErrUnsupportedType.
	Lister(scheme string) (ObjectLister, error)

	// Schemes returns the registered schemes.
	Schemes() []string
}
