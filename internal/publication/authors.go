package publication

import (
	"strings"
	"unicode/utf8"

	"github.com/fjonas/folio/internal/inspire"
)

const (
	// CollaborationThreshold is the author count above which a
	// collaboration paper is shortened to its first few authors.
	CollaborationThreshold = 10

	// CollaborationShown is the number of authors shown for a shortened
	// collaboration paper.
	CollaborationShown = 3

	// MaxAuthors is the number of authors shown for any other paper.
	MaxAuthors = 20
)

// Author is a display-ready author name.
type Author struct {
	Name string `json:"name"`
	Self bool   `json:"self,omitempty"`
}

// FormatName converts "Last, First" to "F. Last". Names that are not in
// exactly that shape are returned unchanged.
func FormatName(name string) string {
	parts := strings.Split(name, ",")
	if len(parts) != 2 {
		return name
	}
	last := strings.TrimSpace(parts[0])
	first := strings.TrimSpace(parts[1])
	if first == "" {
		return last
	}
	r, _ := utf8.DecodeRuneInString(first)
	return string(r) + ". " + last
}

// FormatAuthors selects and formats the authors of a record. It returns the
// display authors, whether the list was truncated, and the collaboration
// name if any.
func FormatAuthors(meta inspire.Metadata, self SelfMatcher) ([]Author, bool, string) {
	var collab string
	if len(meta.Collaborations) > 0 {
		collab = meta.Collaborations[0].Value
	}

	limit := MaxAuthors
	if collab != "" && len(meta.Authors) > CollaborationThreshold {
		limit = CollaborationShown
	}

	shown := meta.Authors
	if len(shown) > limit {
		shown = shown[:limit]
	}

	authors := make([]Author, 0, len(shown))
	for _, a := range shown {
		authors = append(authors, Author{
			Name: FormatName(a.FullName),
			Self: self.Matches(a.FullName),
		})
	}

	return authors, len(meta.Authors) > limit, collab
}

// AuthorLine renders authors as "A. One, B. Two et al. (X Collaboration)".
func AuthorLine(authors []Author, etAl bool, collab string) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Name
	}

	var parts []string
	if len(names) > 0 {
		line := strings.Join(names, ", ")
		if etAl {
			line += " et al."
		}
		parts = append(parts, line)
	}
	if collab != "" {
		parts = append(parts, "("+collab+" Collaboration)")
	}
	return strings.Join(parts, " ")
}

// SelfMatcher flags names that belong to the site owner. Each variant is a
// name such as "Jonas, Florian", "Jonas, F." or "Florian Jonas"; an author
// matches a variant when the surnames are equal and the given names share
// their first letter. The comparison ignores case.
type SelfMatcher struct {
	variants []personName
}

type personName struct {
	last  string
	given string // first given name, lowercased, "f" for an initial
}

// matches compares surnames, then given names. An initial on either side
// only needs to agree with the other's first letter; two full given names
// must be equal.
func (v personName) matches(p personName) bool {
	if v.last != p.last {
		return false
	}
	if v.given == "" {
		return true
	}
	if p.given == "" {
		return false
	}
	if isInitial(v.given) || isInitial(p.given) {
		a, _ := utf8.DecodeRuneInString(v.given)
		b, _ := utf8.DecodeRuneInString(p.given)
		return a == b
	}
	return v.given == p.given
}

func isInitial(given string) bool {
	return utf8.RuneCountInString(given) == 1
}

// NewSelfMatcher creates a matcher from name variants. Blank variants are
// ignored; a matcher without variants matches nothing.
func NewSelfMatcher(variants ...string) SelfMatcher {
	var m SelfMatcher
	for _, v := range variants {
		if p, ok := splitName(v); ok {
			m.variants = append(m.variants, p)
		}
	}
	return m
}

// Matches reports whether name is one of the configured variants.
func (m SelfMatcher) Matches(name string) bool {
	p, ok := splitName(name)
	if !ok {
		return false
	}
	for _, v := range m.variants {
		if v.matches(p) {
			return true
		}
	}
	return false
}

// splitName extracts a lowercased surname and first given name from
// "Last, First" or "First Last".
func splitName(name string) (personName, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return personName{}, false
	}

	var last, first string
	if before, after, found := strings.Cut(name, ","); found {
		last = strings.TrimSpace(before)
		first = strings.TrimSpace(after)
	} else {
		fields := strings.Fields(name)
		last = fields[len(fields)-1]
		first = strings.Join(fields[:len(fields)-1], " ")
	}
	if last == "" {
		return personName{}, false
	}

	p := personName{last: strings.ToLower(last)}
	given := strings.FieldsFunc(strings.ToLower(first), func(r rune) bool {
		return r == ' ' || r == '.'
	})
	if len(given) > 0 {
		p.given = given[0]
	}
	return p, true
}
