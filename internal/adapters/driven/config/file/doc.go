// Package file provides the TOML settings store for gcs-indexer.
//
// Settings live in ~/.gcs-indexer/config.toml. Tables are flattened into
// dot-notation keys on load ("elasticsearch.url") and nested again on save,
// so the file stays hand-editable.
package file
