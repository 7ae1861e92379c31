package domain

import "strings"

// Dataset is the configuration of one dataset directory.
type Dataset struct {
	// Name is the display name from dataset.json.
	Name string

	// Patterns are the path templates to index, in order.
	Patterns []string
}

// IndexName derives the index name from the dataset name: spaces become
// underscores and the result is lowercased, since index names must be
// lowercase.
func (d Dataset) IndexName() string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(d.Name), " ", "_"))
}
