package publication

import (
	"fmt"
	"testing"

	"github.com/fjonas/folio/internal/inspire"
	"github.com/google/go-cmp/cmp"
)

func intPtr(n int) *int { return &n }

func makeAuthors(n int) []inspire.Author {
	authors := make([]inspire.Author, n)
	for i := range authors {
		authors[i] = inspire.Author{FullName: fmt.Sprintf("Last%d, First%d", i, i)}
	}
	return authors
}

func TestNormalize_FullRecord(t *testing.T) {
	rec := inspire.Record{
		ID: "2021234",
		Metadata: inspire.Metadata{
			Titles:          []inspire.Title{{Title: "Measurement of direct photons"}},
			Authors:         []inspire.Author{{FullName: "Doe, Jane"}, {FullName: "Jonas, Florian"}},
			PublicationInfo: []inspire.PublicationInfo{{JournalTitle: "Phys.Rev.C", JournalVolume: "108", Year: 2023, ArtID: "034901"}},
			PreprintDate:    "2022-11-30",
			ArxivEprints:    []inspire.Value{{Value: "2211.12345"}},
			DOIs:            []inspire.Value{{Value: "10.1103/PhysRevC.108.034901"}},
			Abstracts:       []inspire.Value{{Value: "We measure photons."}},
			Documents: []inspire.Document{
				{URL: "https://example.org/a.pdf"},
				{URL: "https://example.org/full.pdf", Fulltext: true},
			},
			CitationCount: intPtr(0),
		},
	}

	n := NewNormalizer(WithSelfMatcher(NewSelfMatcher("Jonas, Florian")))
	got := n.Normalize(rec)

	want := Publication{
		ID:    "2021234",
		Title: "Measurement of direct photons",
		Authors: []Author{
			{Name: "J. Doe"},
			{Name: "F. Jonas", Self: true},
		},
		Venue:    Venue{Journal: "Phys.Rev.C", Volume: "108", Year: "2023", Page: "034901"},
		DateKey:  "2023",
		Abstract: "We measure photons.",
		Links: []Link{
			{Kind: LinkAbstract, Label: "Abstract"},
			{Kind: LinkArxiv, Label: "arXiv:2211.12345", URL: "https://arxiv.org/abs/2211.12345"},
			{Kind: LinkDOI, Label: "DOI", URL: "https://doi.org/10.1103/PhysRevC.108.034901"},
			{Kind: LinkInspire, Label: "INSPIRE", URL: "https://inspirehep.net/literature/2021234"},
			{Kind: LinkPDF, Label: "PDF", URL: "https://example.org/full.pdf"},
			{Kind: LinkCitations, Label: "0 citations"},
		},
		CitationCount: intPtr(0),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
	if got.Venue.String() != "Phys.Rev.C 108 (2023), 034901" {
		t.Errorf("Venue.String() = %q", got.Venue.String())
	}
}

func TestNormalize_EmptyRecord(t *testing.T) {
	got := NewNormalizer().Normalize(inspire.Record{ID: "7"})

	if got.Title != UntitledPlaceholder {
		t.Errorf("Title = %q, want %q", got.Title, UntitledPlaceholder)
	}
	if got.DateKey != MissingDate {
		t.Errorf("DateKey = %q, want %q", got.DateKey, MissingDate)
	}
	if got.Venue.String() != "Preprint" {
		t.Errorf("Venue = %q, want Preprint", got.Venue.String())
	}
	// Only the canonical record link is always present.
	want := []Link{{Kind: LinkInspire, Label: "INSPIRE", URL: "https://inspirehep.net/literature/7"}}
	if diff := cmp.Diff(want, got.Links); diff != "" {
		t.Errorf("Links mismatch (-want +got):\n%s", diff)
	}
	if got.CitationCount != nil {
		t.Errorf("CitationCount = %v, want nil", *got.CitationCount)
	}
}

func TestNormalize_IDFromControlNumber(t *testing.T) {
	got := NewNormalizer().Normalize(inspire.Record{Metadata: inspire.Metadata{ControlNumber: 1805025}})
	if got.ID != "1805025" {
		t.Errorf("ID = %q, want 1805025", got.ID)
	}
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	recs := []inspire.Record{{ID: "3"}, {ID: "1"}, {ID: "2"}}
	pubs := NewNormalizer().NormalizeAll(recs)
	for i, want := range []string{"3", "1", "2"} {
		if pubs[i].ID != want {
			t.Errorf("pubs[%d].ID = %s, want %s", i, pubs[i].ID, want)
		}
	}
}

func TestFormatVenue(t *testing.T) {
	tests := []struct {
		name string
		meta inspire.Metadata
		want string
	}{
		{
			name: "journal with page",
			meta: inspire.Metadata{PublicationInfo: []inspire.PublicationInfo{{JournalTitle: "JHEP", JournalVolume: "05", Year: 2021, PageStart: "123", ArtID: "ignored"}}},
			want: "JHEP 05 (2021), 123",
		},
		{
			name: "journal without volume or page",
			meta: inspire.Metadata{PublicationInfo: []inspire.PublicationInfo{{JournalTitle: "Nature", Year: 2020}}},
			want: "Nature (2020)",
		},
		{
			name: "journal only",
			meta: inspire.Metadata{PublicationInfo: []inspire.PublicationInfo{{JournalTitle: "Nature"}}},
			want: "Nature",
		},
		{
			name: "publication info without journal is a plain preprint",
			meta: inspire.Metadata{PublicationInfo: []inspire.PublicationInfo{{Year: 2019}}, PreprintDate: "2018-12-01"},
			want: "Preprint",
		},
		{
			name: "proceedings year is not overridden by preprint date",
			meta: inspire.Metadata{PublicationInfo: []inspire.PublicationInfo{{Year: 2022}}, PreprintDate: "2021-03-01"},
			want: "Preprint",
		},
		{
			name: "preprint",
			meta: inspire.Metadata{PreprintDate: "2024-03-01"},
			want: "Preprint (2024)",
		},
		{
			name: "earliest date",
			meta: inspire.Metadata{EarliestDate: "2017-06"},
			want: "(2017)",
		},
		{
			name: "nothing",
			meta: inspire.Metadata{},
			want: "Preprint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVenue(tt.meta).String(); got != tt.want {
				t.Errorf("FormatVenue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinks_FirstDocumentWithoutFulltext(t *testing.T) {
	meta := inspire.Metadata{Documents: []inspire.Document{{URL: "a.pdf"}, {URL: "b.pdf"}}}
	links := Links("1", meta)
	last := links[len(links)-1]
	if last.Kind != LinkPDF || last.URL != "a.pdf" {
		t.Errorf("last link = %+v, want first document", last)
	}
}

func TestLinks_CitationCount(t *testing.T) {
	links := Links("1", inspire.Metadata{CitationCount: intPtr(42)})
	last := links[len(links)-1]
	if last.Kind != LinkCitations || last.Label != "42 citations" || last.URL != "" {
		t.Errorf("last link = %+v", last)
	}
}
