// Package memory provides in-memory implementations of the object listing,
// index and settings ports. Service and CLI tests run against them.
package memory
