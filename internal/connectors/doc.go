// Package connectors provides object listers for the storage schemes a
// pattern may use (gs://, s3://). Each lister knows how to page through
// one object store's listing API.
//
// Listers are registered with the Registry at startup, keyed by scheme.
package connectors
