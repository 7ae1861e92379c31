package domain

import "strings"

// FileCategory is a coarse file-format label. Its value doubles as the tag
// searched for inside a path.
type FileCategory string

// Recognised file categories.
const (
	CategoryBAM   FileCategory = "bam"
	CategoryVCF   FileCategory = "vcf"
	CategoryFASTQ FileCategory = "fastq"
	CategoryCRAM  FileCategory = "cram"
)

// DefaultCategories is the canonical classification order.
var DefaultCategories = []FileCategory{CategoryBAM, CategoryVCF, CategoryFASTQ, CategoryCRAM}

// ParseCategories converts configured tags into categories, dropping blanks.
// Order is preserved since it decides classification.
func ParseCategories(tags []string) []FileCategory {
	categories := make([]FileCategory, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		categories = append(categories, FileCategory(tag))
	}
	return categories
}

// Classifier assigns a category to a path by tag containment.
type Classifier struct {
	categories []FileCategory
}

// NewClassifier returns a classifier over the given ordered categories.
// An empty list falls back to DefaultCategories.
func NewClassifier(categories []FileCategory) *Classifier {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	ordered := make([]FileCategory, len(categories))
	copy(ordered, categories)
	return &Classifier{categories: ordered}
}

// Categories returns the classification order.
func (c *Classifier) Categories() []FileCategory {
	out := make([]FileCategory, len(c.categories))
	copy(out, c.categories)
	return out
}

// Classify returns the category whose tag appears in path. When several tags
// appear, the one latest in the category order wins, so a path like
// ".../bam/A1.vcf" is a vcf.
func (c *Classifier) Classify(path string) (FileCategory, bool) {
	var found FileCategory
	for _, category := range c.categories {
		if strings.Contains(path, string(category)) {
			found = category
		}
	}
	return found, found != ""
}
