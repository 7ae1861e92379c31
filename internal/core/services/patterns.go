package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driving"
)

// Ensure PatternService implements the interface.
var _ driving.PatternService = (*PatternService)(nil)

// PatternService loads dataset directories and lints their patterns.
type PatternService struct {
	loader  driven.DatasetLoader
	listers driven.ListerFactory
}

// NewPatternService creates a pattern service. listers may be nil, in which
// case scheme support is not checked.
func NewPatternService(loader driven.DatasetLoader, listers driven.ListerFactory) *PatternService {
	return &PatternService{loader: loader, listers: listers}
}

// LoadDataset reads the dataset name and patterns from dir.
func (s *PatternService) LoadDataset(dir string) (*driving.DatasetInfo, error) {
	if s.loader == nil {
		return nil, domain.ErrUnsupportedType
	}
	ds, err := s.loader.Load(dir)
	if err != nil {
		return nil, err
	}
	return &driving.DatasetInfo{
		Name:      ds.Name,
		IndexName: ds.IndexName(),
		Patterns:  ds.Patterns,
	}, nil
}

// Lint reports every pattern in order.
func (s *PatternService) Lint(patterns []string) []driving.PatternReport {
	var schemes []string
	if s.listers != nil {
		schemes = s.listers.Schemes()
	}

	reports := make([]driving.PatternReport, 0, len(patterns))
	for _, template := range patterns {
		reports = append(reports, lintPattern(template, schemes))
	}
	return reports
}

func lintPattern(template string, schemes []string) driving.PatternReport {
	report := driving.PatternReport{Template: template}

	pattern, err := domain.ParsePattern(template)
	if err != nil {
		report.Problems = append(report.Problems, err.Error())
		report.Placeholders = strings.Count(template, domain.PrimaryKeyPlaceholder)
		return report
	}

	report.Scheme = pattern.Scheme()
	report.Bucket = pattern.Bucket()
	report.ListingPrefix = pattern.ListingPrefix()
	report.Expression = pattern.Expression()
	report.Placeholders = pattern.PlaceholderCount()

	if schemes != nil && !slices.Contains(schemes, pattern.Scheme()) {
		report.Problems = append(report.Problems,
			fmt.Sprintf("scheme %q has no lister (supported: %s)", pattern.Scheme(), strings.Join(schemes, ", ")))
	}
	switch n := pattern.PlaceholderCount(); {
	case n == 0:
		report.Problems = append(report.Problems,
			fmt.Sprintf("no %s placeholder: nothing will be indexed", domain.PrimaryKeyPlaceholder))
	case n > 1:
		report.Problems = append(report.Problems,
			fmt.Sprintf("%d %s placeholders: only the first captures the key", n, domain.PrimaryKeyPlaceholder))
	}
	if pattern.ListingPrefix() == "" {
		report.Problems = append(report.Problems, "empty listing prefix: the whole bucket will be listed")
	}
	return report
}
