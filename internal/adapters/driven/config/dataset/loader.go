// Package dataset loads dataset configuration directories.
//
// A directory holds dataset.json ({"name": ...}) and the object patterns in
// gcs.json ({"gcs_patterns": [...]}) or, failing that, gcs.yaml. JSON files
// may carry comments and trailing commas.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
)

// File names inside a dataset config directory.
const (
	DatasetFile  = "dataset.json"
	PatternsJSON = "gcs.json"
	PatternsYAML = "gcs.yaml"
)

// Ensure Loader implements the interface.
var _ driven.DatasetLoader = (*Loader)(nil)

// Loader reads dataset directories from disk.
type Loader struct{}

// NewLoader creates a dataset loader.
func NewLoader() *Loader {
	return &Loader{}
}

type datasetFile struct {
	Name string `json:"name"`
}

type patternsFile struct {
	Patterns []string `json:"gcs_patterns" yaml:"gcs_patterns"`
}

// Load reads the dataset name and patterns from dir.
func (l *Loader) Load(dir string) (*domain.Dataset, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: dataset config directory is required", domain.ErrInvalidInput)
	}

	var meta datasetFile
	if err := readJSON(filepath.Join(dir, DatasetFile), &meta); err != nil {
		return nil, err
	}
	if meta.Name == "" {
		return nil, fmt.Errorf("%w: %s has no name", domain.ErrInvalidInput, DatasetFile)
	}

	patterns, err := loadPatterns(dir)
	if err != nil {
		return nil, err
	}

	return &domain.Dataset{Name: meta.Name, Patterns: patterns}, nil
}

func loadPatterns(dir string) ([]string, error) {
	var pf patternsFile

	err := readJSON(filepath.Join(dir, PatternsJSON), &pf)
	if errors.Is(err, fs.ErrNotExist) {
		path := filepath.Join(dir, PatternsYAML)
		data, yerr := os.ReadFile(path)
		if yerr != nil {
			if errors.Is(yerr, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: neither %s nor %s found in %s",
					domain.ErrNotFound, PatternsJSON, PatternsYAML, dir)
			}
			return nil, fmt.Errorf("reading %s: %w", path, yerr)
		}
		if yerr := yaml.Unmarshal(data, &pf); yerr != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, yerr)
		}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	return pf.Patterns, nil
}

// readJSON decodes a JSON file that may contain comments.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := json.Unmarshal(std, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
