package driven

import "time"

// PatternStats summarises one pattern scan.
type PatternStats struct {
	Pattern   string
	Listed    int
	Matched   int
	Skipped   int
	Documents int
	Duration  time.Duration
}

// RunRecorder receives per-pattern statistics.
// Optional: the index service works without one.
type RunRecorder interface {
	// RecordPattern is called once per successfully published pattern.
	RecordPattern(stats PatternStats)

	// RecordFailure is called when a pattern fails, with the failure kind
	// ("malformed", "listing" or "publish").
	RecordFailure(pattern, kind string)
}
