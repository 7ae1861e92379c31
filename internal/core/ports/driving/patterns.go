package driving

// PatternService inspects dataset configuration without touching storage.
type PatternService interface {
	// LoadDataset reads the dataset name and patterns from a config directory.
	LoadDataset(dir string) (*DatasetInfo, error)

	// Lint derives each pattern's listing parameters and matcher and
	// reports anything that would make it misbehave.
	Lint(patterns []string) []PatternReport
}

// DatasetInfo is a loaded dataset directory.
type DatasetInfo struct {
	Name      string
	IndexName string
	Patterns  []string
}

// PatternReport describes one pattern as the indexer will use it.
type PatternReport struct {
	Template      string
	Scheme        string
	Bucket        string
	ListingPrefix string
	Expression    string
	Placeholders  int

	// Problems is empty for a pattern that will index as written.
	Problems []string
}

// OK reports whether the pattern has no problems.
func (r PatternReport) OK() bool { return len(r.Problems) == 0 }
