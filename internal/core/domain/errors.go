package domain

import "errors"

// Domain errors represent indexing failures.
// Adapters wrap their own errors with these so callers can use errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown sink or object store scheme.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMalformedPattern indicates a pattern template cannot be split into
	// scheme, bucket and object path.
	ErrMalformedPattern = errors.New("malformed pattern")

	// ErrListing indicates the object store listing call failed.
	ErrListing = errors.New("listing failed")

	// ErrPublish indicates the bulk write to the index store failed.
	ErrPublish = errors.New("publish failed")
)
