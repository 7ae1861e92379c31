// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for an index run:
//
//   - ObjectLister: Pages through object names under a bucket prefix
//   - ListerFactory: Selects the lister for a pattern's scheme
//   - IndexPublisher: Writes one DocumentSet to an index (Elasticsearch, SQLite, stdout)
//   - DatasetLoader: Reads the dataset name and patterns from a config directory
//   - ConfigStore: Persisted settings
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunRecorder: Per-pattern run metrics. Without it nothing is recorded.
//   - IndexReader: Reads published documents back. Only the SQLite store has one.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
