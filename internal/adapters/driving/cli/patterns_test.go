package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternsCmd_HasLint(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range patternsCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "lint")
}

func TestPatternsLint_FromDataset(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "patterns", "lint", "-d", "/cfg")

	require.NoError(t, err)
	assert.Contains(t, out, `Dataset "Test Dataset" (index test_dataset)`)
	assert.Contains(t, out, "gs://bucket/ds/bam/PRIMARY_KEY.")
	assert.Contains(t, out, "bucket:     bucket")
	assert.Contains(t, out, `prefix:     "ds/bam/"`)
	assert.Contains(t, out, "(?P<primary_key>")
	assert.Contains(t, out, "All 1 patterns OK.")
	// Output to a buffer is never styled.
	assert.NotContains(t, out, "\x1b[")
}

func TestPatternsLint_Arguments(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "patterns", "lint", "gs://bucket/a/PRIMARY_KEY.bam", "s3://bucket/PRIMARY_KEY", "junk")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 patterns have problems")
	assert.Contains(t, out, `problem: scheme "s3" has no lister`)
	assert.Contains(t, out, "problem: malformed pattern")
}

func TestPatternsLint_NoInput(t *testing.T) {
	setupTestServices(t)
	t.Setenv(envDatasetConfigDir, "")

	_, _, err := execute(t, "patterns", "lint")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "give patterns as arguments")
}

func TestPatternsLint_EmptyDataset(t *testing.T) {
	env := setupTestServices(t)
	env.dataset.Patterns = nil

	out, _, err := execute(t, "patterns", "lint", "-d", "/cfg")

	require.NoError(t, err)
	assert.Contains(t, out, "No patterns configured.")
}
