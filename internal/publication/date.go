package publication

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fjonas/folio/internal/inspire"
)

// MissingDate is the date key of a record with no usable date.
const MissingDate = "0000"

// DateKey resolves the sortable date of a record: the year of the first
// publication info, then the preprint date, then the earliest date.
func DateKey(meta inspire.Metadata) string {
	if len(meta.PublicationInfo) > 0 && meta.PublicationInfo[0].Year != 0 {
		return strconv.Itoa(meta.PublicationInfo[0].Year)
	}
	if meta.PreprintDate != "" {
		return meta.PreprintDate
	}
	if meta.EarliestDate != "" {
		return meta.EarliestDate
	}
	return MissingDate
}

// SortKey pads a date key to YYYY-MM-DD so that bare years, year-months and
// full dates collate consistently. Missing parts become "00", which places a
// bare year after any dated record of the same year when sorting newest first.
func SortKey(dateKey string) string {
	parts := strings.SplitN(strings.TrimSpace(dateKey), "-", 3)
	year := parts[0]
	month, day := "00", "00"
	if len(parts) > 1 {
		month = pad2(parts[1])
	}
	if len(parts) > 2 {
		// Drop any time component.
		d, _, _ := strings.Cut(parts[2], "T")
		day = pad2(d)
	}
	if len(year) < 4 {
		year = strings.Repeat("0", 4-len(year)) + year
	}
	return year + "-" + month + "-" + day
}

func pad2(s string) string {
	switch len(s) {
	case 0:
		return "00"
	case 1:
		return "0" + s
	default:
		return s[:2]
	}
}

// YearOf returns the four-character year prefix of a date string.
func YearOf(date string) string {
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

// SortByDate orders raw records newest first. Ties keep their input order.
func SortByDate(recs []inspire.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return SortKey(DateKey(recs[i].Metadata)) > SortKey(DateKey(recs[j].Metadata))
	})
}

// SortPublications orders publications newest first. Ties keep their input order.
func SortPublications(pubs []Publication) {
	sort.SliceStable(pubs, func(i, j int) bool {
		return SortKey(pubs[i].DateKey) > SortKey(pubs[j].DateKey)
	})
}
