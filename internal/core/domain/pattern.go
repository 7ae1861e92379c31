package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// PrimaryKeyPlaceholder is the token a pattern template uses to mark where
// the record identifier sits in an object path.
const PrimaryKeyPlaceholder = "PRIMARY_KEY"

// primaryKeyGroup is the capture group substituted for the placeholder.
const primaryKeyGroup = `(?P<primary_key>\w+)`

const schemeSeparator = "://"

// PathPattern is a parsed pattern template such as
// gs://genomics-public-data/1000-genomes/bam/PRIMARY_KEY.
// It is immutable once parsed.
type PathPattern struct {
	template      string
	scheme        string
	bucket        string
	listingPrefix string
	placeholders  int
	matcher       *regexp.Regexp
	keyIndex      int
}

// MatchResult is the outcome of a successful Match.
type MatchResult struct {
	// PrimaryKey is the value captured at the placeholder position.
	PrimaryKey string

	// Path is the candidate path that matched.
	Path string
}

// ParsePattern splits a template into scheme, bucket and listing prefix and
// builds its matcher. It fails with ErrMalformedPattern when the template has
// no scheme separator, an empty bucket, or nothing after the bucket.
//
// A template without the placeholder is accepted; its matcher never yields a
// primary key. Only the first placeholder is substituted, later occurrences
// are matched literally.
func ParsePattern(template string) (*PathPattern, error) {
	scheme, rest, ok := strings.Cut(template, schemeSeparator)
	if !ok || scheme == "" {
		return nil, fmt.Errorf("%w: %q has no scheme separator", ErrMalformedPattern, template)
	}

	bucket, objectPart, ok := strings.Cut(rest, "/")
	if !ok {
		return nil, fmt.Errorf("%w: %q has no path after the bucket", ErrMalformedPattern, template)
	}
	if bucket == "" {
		return nil, fmt.Errorf("%w: %q has an empty bucket name", ErrMalformedPattern, template)
	}

	prefix := objectPart
	if i := strings.Index(objectPart, PrimaryKeyPlaceholder); i >= 0 {
		prefix = objectPart[:i]
	}

	matcher := compileMatcher(template)
	return &PathPattern{
		template:      template,
		scheme:        scheme,
		bucket:        bucket,
		listingPrefix: prefix,
		placeholders:  strings.Count(template, PrimaryKeyPlaceholder),
		matcher:       matcher,
		keyIndex:      matcher.SubexpIndex("primary_key"),
	}, nil
}

// compileMatcher escapes every literal part of the template and swaps the
// first placeholder for a capture group. The result is anchored at the start
// of the path only, so trailing text after the template is allowed.
func compileMatcher(template string) *regexp.Regexp {
	before, after, found := strings.Cut(template, PrimaryKeyPlaceholder)
	if !found {
		return regexp.MustCompile("^" + regexp.QuoteMeta(template))
	}
	return regexp.MustCompile("^" + regexp.QuoteMeta(before) + primaryKeyGroup + regexp.QuoteMeta(after))
}

// Template returns the template the pattern was parsed from.
func (p *PathPattern) Template() string { return p.template }

// Scheme returns the URL scheme, e.g. "gs" or "s3".
func (p *PathPattern) Scheme() string { return p.scheme }

// Bucket returns the bucket name.
func (p *PathPattern) Bucket() string { return p.bucket }

// ListingPrefix returns the literal object-name prefix preceding the
// placeholder. It only narrows the listing; Match re-validates every path.
func (p *PathPattern) ListingPrefix() string { return p.listingPrefix }

// PlaceholderCount reports how many times the placeholder occurs in the
// template. Anything other than 1 means matching will not behave as the
// template author most likely intended.
func (p *PathPattern) PlaceholderCount() int { return p.placeholders }

// Expression returns the regular expression used by Match.
func (p *PathPattern) Expression() string { return p.matcher.String() }

// ObjectPath builds the full candidate path for an object name listed from
// this pattern's bucket.
func (p *PathPattern) ObjectPath(name string) string {
	return p.scheme + schemeSeparator + p.bucket + "/" + name
}

// Match tests a candidate path against the pattern and extracts the primary key.
func (p *PathPattern) Match(path string) (MatchResult, bool) {
	if p.keyIndex < 0 {
		return MatchResult{}, false
	}
	m := p.matcher.FindStringSubmatch(path)
	if m == nil {
		return MatchResult{}, false
	}
	return MatchResult{PrimaryKey: m[p.keyIndex], Path: path}, true
}
