// Package reference scans line-oriented text for embedded INSPIRE record
// identifiers.
package reference

import (
	"regexp"
	"strings"
)

// DefaultPattern is the URL path that precedes a record identifier.
const DefaultPattern = "inspirehep.net/literature/"

// Extractor finds identifiers that follow a fixed URL path.
type Extractor struct {
	re *regexp.Regexp
}

// NewExtractor creates an Extractor for the given URL path prefix. An empty
// prefix selects DefaultPattern.
func NewExtractor(prefix string) *Extractor {
	if prefix == "" {
		prefix = DefaultPattern
	}
	return &Extractor{re: regexp.MustCompile(regexp.QuoteMeta(prefix) + `(\d+)`)}
}

var defaultExtractor = NewExtractor(DefaultPattern)

// Extract returns the identifiers referenced in text using DefaultPattern.
func Extract(text string) []string {
	return defaultExtractor.Extract(text)
}

// Extract returns one identifier per matching line, in order of appearance.
// Duplicates are kept. Lines without a match are skipped.
func (e *Extractor) Extract(text string) []string {
	var ids []string
	for _, line := range strings.Split(text, "\n") {
		if id, ok := e.match(line); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (e *Extractor) match(line string) (string, bool) {
	m := e.re.FindStringSubmatch(line)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// Dedupe drops repeated identifiers, keeping first appearances.
func Dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
