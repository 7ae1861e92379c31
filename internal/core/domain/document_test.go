package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_GroupsByKeyAndCategory(t *testing.T) {
	set := Aggregate([]Entry{
		{PrimaryKey: "A1", Category: CategoryBAM, Path: "gs://b/A1.bam"},
		{PrimaryKey: "A2", Category: CategoryBAM, Path: "gs://b/A2.bam"},
		{PrimaryKey: "A1", Category: CategoryVCF, Path: "gs://b/A1.vcf"},
		{PrimaryKey: "A1", Category: CategoryBAM, Path: "gs://b/A1.second.bam"},
	})

	require.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"A1", "A2"}, set.Keys())

	a1, ok := set.Get("A1")
	require.True(t, ok)
	assert.Equal(t, map[FileCategory][]string{
		CategoryBAM: {"gs://b/A1.bam", "gs://b/A1.second.bam"},
		CategoryVCF: {"gs://b/A1.vcf"},
	}, a1.Files)

	a2, ok := set.Get("A2")
	require.True(t, ok)
	assert.Equal(t, []string{"gs://b/A2.bam"}, a2.Files[CategoryBAM])
}

func TestAggregate_KeepsDuplicates(t *testing.T) {
	e := Entry{PrimaryKey: "A1", Category: CategoryBAM, Path: "gs://b/A1.bam"}

	set := Aggregate([]Entry{e, e})

	doc, ok := set.Get("A1")
	require.True(t, ok)
	assert.Equal(t, []string{"gs://b/A1.bam", "gs://b/A1.bam"}, doc.Files[CategoryBAM])
}

func TestAggregate_Idempotent(t *testing.T) {
	entries := []Entry{
		{PrimaryKey: "B", Category: CategoryCRAM, Path: "p3"},
		{PrimaryKey: "A", Category: CategoryBAM, Path: "p1"},
		{PrimaryKey: "B", Category: CategoryCRAM, Path: "p2"},
	}

	first := Aggregate(entries)
	second := Aggregate(entries)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"B", "A"}, first.Keys())
}

func TestAggregate_Empty(t *testing.T) {
	set := Aggregate(nil)

	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Keys())

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestDocumentSet_AllStopsEarly(t *testing.T) {
	set := Aggregate([]Entry{
		{PrimaryKey: "A", Category: CategoryBAM, Path: "a"},
		{PrimaryKey: "B", Category: CategoryBAM, Path: "b"},
		{PrimaryKey: "C", Category: CategoryBAM, Path: "c"},
	})

	var seen []string
	for key := range set.All() {
		seen = append(seen, key)
		if key == "B" {
			break
		}
	}

	assert.Equal(t, []string{"A", "B"}, seen)
}

func TestDocumentSet_KeysIsACopy(t *testing.T) {
	set := Aggregate([]Entry{{PrimaryKey: "A", Category: CategoryBAM, Path: "a"}})

	keys := set.Keys()
	keys[0] = "Z"

	assert.Equal(t, []string{"A"}, set.Keys())
}

func TestDocumentSet_MarshalJSON(t *testing.T) {
	set := Aggregate([]Entry{
		{PrimaryKey: "A1", Category: CategoryBAM, Path: "gs://b/A1.bam"},
		{PrimaryKey: "A1", Category: CategoryVCF, Path: "gs://b/A1.vcf"},
	})

	data, err := json.Marshal(set)

	require.NoError(t, err)
	assert.JSONEq(t, `{"A1":{"files":{"bam":["gs://b/A1.bam"],"vcf":["gs://b/A1.vcf"]}}}`, string(data))
}

func TestGetMissingDocument(t *testing.T) {
	set := NewDocumentSet()

	doc, ok := set.Get("missing")

	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestDocumentSet_MarshalJSONKeepsFirstSeenOrder(t *testing.T) {
	set := Aggregate([]Entry{
		{PrimaryKey: "Z9", Category: CategoryBAM, Path: "z"},
		{PrimaryKey: "A1", Category: CategoryBAM, Path: "a"},
		{PrimaryKey: "M5", Category: CategoryBAM, Path: "m"},
	})

	data, err := json.Marshal(set)

	require.NoError(t, err)
	assert.Equal(t,
		`{"Z9":{"files":{"bam":["z"]}},"A1":{"files":{"bam":["a"]}},"M5":{"files":{"bam":["m"]}}}`,
		string(data))
}
