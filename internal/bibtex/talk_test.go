package bibtex

import (
	"testing"
)

func TestTalks(t *testing.T) {
	talks := Talks(Parse(talkBib))
	if len(talks) != 3 {
		t.Fatalf("len = %d, want 3", len(talks))
	}

	qm := talks[0]
	if qm.Slides != "https://indico.cern.ch/event/1139644/" {
		t.Errorf("slides = %q", qm.Slides)
	}
	if qm.Month != "Sep" || qm.Year != 2023 {
		t.Errorf("month/year = %q/%d", qm.Month, qm.Year)
	}
	if qm.CleanTitle() != "Direct photons in ALICE" {
		t.Errorf("CleanTitle() = %q", qm.CleanTitle())
	}
	if qm.Category != "Talk" {
		t.Errorf("category = %q", qm.Category)
	}

	if talks[2].Event() != DefaultEvent {
		t.Errorf("Event() = %q, want %q", talks[2].Event(), DefaultEvent)
	}
}

func TestSortTalks(t *testing.T) {
	talks := []Talk{
		{Key: "a", Year: 2019},
		{Key: "b", Year: 2023},
		{Key: "c", Year: 0},
		{Key: "d", Year: 2023},
	}
	SortTalks(talks)

	want := []string{"b", "d", "a", "c"}
	for i, k := range want {
		if talks[i].Key != k {
			t.Errorf("talks[%d] = %s, want %s", i, talks[i].Key, k)
		}
	}
}

func TestCategoryColor(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{"Talk", "#f08080"},
		{" talk & poster ", "#f08080"},
		{"Poster", "#6495ed"},
		{"Plenary Talk", "#daa520"},
		{"Multi-Exp Talk", "#daa520"},
		{"Seminar", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := tt.category.Color(); got != tt.want {
				t.Errorf("Color() = %q, want %q", got, tt.want)
			}
		})
	}
}
