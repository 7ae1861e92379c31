// Package services implements the driving port interfaces.
// Services contain the core indexing logic and orchestrate
// calls to driven ports (listers, publishers, stores).
//
// Services are pure Go with no CGO or external dependencies
// beyond run identifiers.
package services
