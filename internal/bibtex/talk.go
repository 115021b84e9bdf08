package bibtex

import (
	"sort"
	"strings"
)

// Talk is a talk or poster entry from talk.bib.
type Talk struct {
	Key      string   `json:"key"`
	Title    string   `json:"title"`
	Note     string   `json:"note,omitempty"` // Event or venue
	Month    string   `json:"month,omitempty"`
	Year     int      `json:"year"`
	Slides   string   `json:"slides,omitempty"` // Indico or slide deck URL
	URL      string   `json:"url,omitempty"`
	Category Category `json:"category,omitempty"`
}

// DefaultEvent is shown when a talk has no note.
const DefaultEvent = "Event"

// Talks converts parsed entries into talks.
func Talks(entries []Entry) []Talk {
	talks := make([]Talk, 0, len(entries))
	for _, e := range entries {
		talks = append(talks, Talk{
			Key:      e.Key,
			Title:    e.Field("title"),
			Note:     e.Field("note"),
			Month:    e.Field("month"),
			Year:     e.Year,
			Slides:   e.Field("indico"),
			URL:      e.Field("url"),
			Category: Category(e.Field("abbr")),
		})
	}
	return talks
}

// CleanTitle returns the title with BibTeX grouping braces removed.
func (t Talk) CleanTitle() string {
	return strings.NewReplacer("{", "", "}", "").Replace(t.Title)
}

// Event returns the note, or DefaultEvent if empty.
func (t Talk) Event() string {
	if t.Note == "" {
		return DefaultEvent
	}
	return t.Note
}

// SortTalks orders talks by year, newest first. Equal years keep file order.
func SortTalks(talks []Talk) {
	sort.SliceStable(talks, func(i, j int) bool {
		return talks[i].Year > talks[j].Year
	})
}

// Category is the free-form abbr tag of a talk. It only drives display color.
type Category string

// Color returns the display color for the category, or "" for none.
func (c Category) Color() string {
	t := strings.ToLower(strings.TrimSpace(string(c)))
	switch {
	case t == "":
		return ""
	case t == "talk" || t == "talk & poster":
		return "#f08080"
	case t == "poster":
		return "#6495ed"
	case t == "plenary talk" || strings.Contains(t, "multi-exp"):
		return "#daa520"
	default:
		return ""
	}
}
