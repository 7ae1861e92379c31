// Package domain defines the core indexing types for gcs-indexer.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PathPattern: A templated object path with one PRIMARY_KEY placeholder
//   - Classifier: Ordered file-category tagging by substring
//   - Document: The per-primary-key grouping of categorised paths
//   - DocumentSet: All documents produced by one pattern scan
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
