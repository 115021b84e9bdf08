package publication

import (
	"testing"

	"github.com/fjonas/folio/internal/inspire"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		name string
		meta inspire.Metadata
		want string
	}{
		{
			name: "publication year",
			meta: inspire.Metadata{PublicationInfo: []inspire.PublicationInfo{{Year: 2021}}, PreprintDate: "2020-05-01"},
			want: "2021",
		},
		{
			name: "preprint date",
			meta: inspire.Metadata{PreprintDate: "2020-05-01", EarliestDate: "2019-01-01"},
			want: "2020-05-01",
		},
		{
			name: "publication info without year",
			meta: inspire.Metadata{PublicationInfo: []inspire.PublicationInfo{{JournalTitle: "JHEP"}}, PreprintDate: "2020-05-01"},
			want: "2020-05-01",
		},
		{
			name: "earliest date",
			meta: inspire.Metadata{EarliestDate: "2019-01"},
			want: "2019-01",
		},
		{
			name: "nothing",
			meta: inspire.Metadata{},
			want: "0000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateKey(tt.meta); got != tt.want {
				t.Errorf("DateKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2021", "2021-00-00"},
		{"2020-05", "2020-05-00"},
		{"2020-05-01", "2020-05-01"},
		{"2020-5-1", "2020-05-01"},
		{"2020-05-01T12:00:00", "2020-05-01"},
		{"0000", "0000-00-00"},
		{"", "0000-00-00"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SortKey(tt.input); got != tt.want {
				t.Errorf("SortKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSortPublications(t *testing.T) {
	pubs := []Publication{
		{ID: "old", DateKey: "2019"},
		{ID: "missing", DateKey: "0000"},
		{ID: "new", DateKey: "2023"},
		{ID: "mid-full", DateKey: "2021-03-01"},
		{ID: "mid-year", DateKey: "2021"},
		{ID: "late", DateKey: "2021-11-20"},
	}
	SortPublications(pubs)

	want := []string{"new", "late", "mid-full", "mid-year", "old", "missing"}
	for i, id := range want {
		if pubs[i].ID != id {
			t.Errorf("pubs[%d] = %s, want %s", i, pubs[i].ID, id)
		}
	}
}

func TestSortByDate(t *testing.T) {
	recs := []inspire.Record{
		{ID: "a", Metadata: inspire.Metadata{PublicationInfo: []inspire.PublicationInfo{{Year: 2019}}}},
		{ID: "b", Metadata: inspire.Metadata{PreprintDate: "2023-02-01"}},
		{ID: "c"},
		{ID: "d", Metadata: inspire.Metadata{PublicationInfo: []inspire.PublicationInfo{{Year: 2023}}}},
	}
	SortByDate(recs)

	want := []inspire.RecordID{"b", "d", "a", "c"}
	for i, id := range want {
		if recs[i].ID != id {
			t.Errorf("recs[%d] = %s, want %s", i, recs[i].ID, id)
		}
	}
}

func TestYearOf(t *testing.T) {
	if got := YearOf("2020-05-01"); got != "2020" {
		t.Errorf("YearOf() = %q", got)
	}
	if got := YearOf("20"); got != "20" {
		t.Errorf("YearOf() = %q", got)
	}
}
