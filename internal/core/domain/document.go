package domain

import (
	"bytes"
	"encoding/json"
	"iter"
)

// Document groups every categorised file found for one primary key.
// It is the unit written to the index store.
type Document struct {
	// Files maps a category to its paths, in listing order.
	Files map[FileCategory][]string `json:"files"`
}

// Entry is one classified path ready for aggregation.
type Entry struct {
	PrimaryKey string
	Category   FileCategory
	Path       string
}

// DocumentSet maps primary keys to documents for a single pattern scan.
// Keys iterate in the order they were first seen.
type DocumentSet struct {
	keys []string
	docs map[string]*Document
}

// NewDocumentSet returns an empty set.
func NewDocumentSet() *DocumentSet {
	return &DocumentSet{docs: make(map[string]*Document)}
}

// Aggregate folds entries into a new DocumentSet. Documents and category
// buckets are created on first sight and paths appended in input order.
// Repeated entries are kept.
func Aggregate(entries []Entry) *DocumentSet {
	set := NewDocumentSet()
	for _, e := range entries {
		set.add(e)
	}
	return set
}

func (s *DocumentSet) add(e Entry) {
	doc, ok := s.docs[e.PrimaryKey]
	if !ok {
		doc = &Document{Files: make(map[FileCategory][]string)}
		s.docs[e.PrimaryKey] = doc
		s.keys = append(s.keys, e.PrimaryKey)
	}
	doc.Files[e.Category] = append(doc.Files[e.Category], e.Path)
}

// Len returns the number of documents.
func (s *DocumentSet) Len() int { return len(s.keys) }

// Keys returns the primary keys in first-seen order.
func (s *DocumentSet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Get returns the document for a primary key.
func (s *DocumentSet) Get(primaryKey string) (*Document, bool) {
	doc, ok := s.docs[primaryKey]
	return doc, ok
}

// All iterates (primary key, document) pairs in first-seen order.
func (s *DocumentSet) All() iter.Seq2[string, *Document] {
	return func(yield func(string, *Document) bool) {
		for _, key := range s.keys {
			if !yield(key, s.docs[key]) {
				return
			}
		}
	}
}

// MarshalJSON renders the set as a JSON object keyed by primary key, with
// keys in first-seen order.
func (s *DocumentSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		doc, err := json.Marshal(s.docs[key])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(doc)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
