// Package bibtex parses the small BibTeX-like format used for talk lists.
//
// Only the field shapes found in talk.bib are supported: brace-delimited,
// quote-delimited and bare-integer values. Nesting depth is not validated;
// a value such as {{Title}} is read up to the first closing brace and yields
// "{Title". Callers strip leftover braces for display.
package bibtex

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Match entry start: @type{key, followed by the body up to the next @.
	entryRegex = regexp.MustCompile(`@(\w+)\s*\{\s*([^,]+),([^@]+)`)
	// Match field: name = {value} | "value" | digits
	fieldRegex = regexp.MustCompile(`(\w+)\s*=\s*(?:\{([^}]*)\}|"([^"]*)"|(\d+))`)
	spaceRegex = regexp.MustCompile(`\s+`)
)

// Entry is one parsed @type{key, ...} block.
type Entry struct {
	Type   string            `json:"type"`
	Key    string            `json:"key"`
	Fields map[string]string `json:"fields,omitempty"`
	// Year is the year field coerced to an integer, 0 if absent or invalid.
	Year int `json:"year"`
}

// Field returns a field value, or "" if absent.
func (e Entry) Field(name string) string {
	return e.Fields[strings.ToLower(name)]
}

// Parse scans text for entries. Entries without any recognized field are
// still returned with Type and Key set.
func Parse(text string) []Entry {
	var entries []Entry

	for _, m := range entryRegex.FindAllStringSubmatch(text, -1) {
		entry := Entry{
			Type:   m[1],
			Key:    strings.TrimSpace(m[2]),
			Fields: make(map[string]string),
		}

		for _, f := range fieldRegex.FindAllStringSubmatch(m[3], -1) {
			name := strings.ToLower(f[1])
			value := firstNonEmpty(f[2], f[3], f[4])
			if value == "" {
				continue
			}
			// A later occurrence of the same field overwrites the earlier one.
			entry.Fields[name] = collapseSpace(value)
		}

		if y, ok := entry.Fields["year"]; ok {
			entry.Year = parseYear(y)
		}

		entries = append(entries, entry)
	}

	return entries
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// collapseSpace replaces whitespace runs with a single space and trims.
func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

func parseYear(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return y
}
