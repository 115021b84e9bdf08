// Package publication turns raw INSPIRE records into render-ready
// publication records: date keys, venue strings, author lines and links.
package publication

import (
	"github.com/fjonas/folio/internal/inspire"
)

// UntitledPlaceholder is used when a record has no title.
const UntitledPlaceholder = "Untitled"

// Publication is a normalized, render-ready publication record.
type Publication struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []Author `json:"authors"`
	EtAl          bool     `json:"et_al,omitempty"`
	Collaboration string   `json:"collaboration,omitempty"`
	Venue         Venue    `json:"venue"`
	DateKey       string   `json:"date"`
	Abstract      string   `json:"abstract,omitempty"`
	Links         []Link   `json:"links"`
	CitationCount *int     `json:"citation_count,omitempty"`
}

// AuthorLine renders the author list as plain text.
func (p Publication) AuthorLine() string {
	return AuthorLine(p.Authors, p.EtAl, p.Collaboration)
}

// Normalizer converts raw records. It is built from loaded configuration.
type Normalizer struct {
	self SelfMatcher
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithSelfMatcher sets the rule that flags the site owner's authorship.
func WithSelfMatcher(m SelfMatcher) NormalizerOption {
	return func(n *Normalizer) {
		n.self = m
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize maps one raw record to a Publication.
func (n *Normalizer) Normalize(rec inspire.Record) Publication {
	meta := rec.Metadata

	id := string(rec.ID)
	if id == "" && meta.ControlNumber != 0 {
		id = string(inspire.RecordIDFromInt(meta.ControlNumber))
	}

	title := UntitledPlaceholder
	if len(meta.Titles) > 0 && meta.Titles[0].Title != "" {
		title = meta.Titles[0].Title
	}

	authors, etAl, collab := FormatAuthors(meta, n.self)

	var abstract string
	if len(meta.Abstracts) > 0 {
		abstract = meta.Abstracts[0].Value
	}

	return Publication{
		ID:            id,
		Title:         title,
		Authors:       authors,
		EtAl:          etAl,
		Collaboration: collab,
		Venue:         FormatVenue(meta),
		DateKey:       DateKey(meta),
		Abstract:      abstract,
		Links:         Links(id, meta),
		CitationCount: meta.CitationCount,
	}
}

// NormalizeAll normalizes records, preserving order.
func (n *Normalizer) NormalizeAll(recs []inspire.Record) []Publication {
	pubs := make([]Publication, 0, len(recs))
	for _, rec := range recs {
		pubs = append(pubs, n.Normalize(rec))
	}
	return pubs
}
