package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_SingleTag(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		path string
		want FileCategory
	}{
		{"gs://b/ds/A1.bam", CategoryBAM},
		{"gs://b/ds/A1.vcf.gz", CategoryVCF},
		{"gs://b/ds/A1_1.fastq", CategoryFASTQ},
		{"gs://b/ds/A1.cram", CategoryCRAM},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := c.Classify(tt.path)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_NoTag(t *testing.T) {
	c := NewClassifier(nil)

	got, ok := c.Classify("gs://b/ds/other/ignored.txt")

	assert.False(t, ok)
	assert.Equal(t, FileCategory(""), got)
}

func TestClassifier_LastMatchWins(t *testing.T) {
	c := NewClassifier(nil)

	got, ok := c.Classify("gs://b/ds/bam/A1.vcf")
	assert.True(t, ok)
	assert.Equal(t, CategoryVCF, got)

	got, ok = c.Classify("gs://b/vcf/bam/fastq/A1.cram")
	assert.True(t, ok)
	assert.Equal(t, CategoryCRAM, got)

	// Order, not position in the path, decides.
	got, ok = c.Classify("gs://b/cram/A1.bam")
	assert.True(t, ok)
	assert.Equal(t, CategoryCRAM, got)
}

func TestClassifier_CustomOrder(t *testing.T) {
	c := NewClassifier([]FileCategory{CategoryVCF, CategoryBAM})

	got, ok := c.Classify("gs://b/ds/bam/A1.vcf")

	assert.True(t, ok)
	assert.Equal(t, CategoryBAM, got)
	assert.Equal(t, []FileCategory{CategoryVCF, CategoryBAM}, c.Categories())
}

func TestClassifier_DefaultOrder(t *testing.T) {
	c := NewClassifier([]FileCategory{})

	assert.Equal(t, DefaultCategories, c.Categories())
}

func TestClassifier_DoesNotAliasInput(t *testing.T) {
	input := []FileCategory{CategoryBAM, CategoryVCF}
	c := NewClassifier(input)
	input[1] = CategoryCRAM

	assert.Equal(t, []FileCategory{CategoryBAM, CategoryVCF}, c.Categories())
}

func TestParseCategories(t *testing.T) {
	got := ParseCategories([]string{" bam", "", "vcf ", "  ", "bai"})

	assert.Equal(t, []FileCategory{"bam", "vcf", "bai"}, got)
}
