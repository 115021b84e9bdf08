package publication

import (
	"strconv"
	"strings"

	"github.com/fjonas/folio/internal/inspire"
)

// Venue is the structured journal reference of a publication. Label holds
// the fallback text used when there is no journal.
type Venue struct {
	Journal string `json:"journal,omitempty"`
	Volume  string `json:"volume,omitempty"`
	Year    string `json:"year,omitempty"`
	Page    string `json:"page,omitempty"`
	Label   string `json:"label,omitempty"`
}

// String renders "<journal> <volume> (<year>), <page>", omitting missing
// parts, or the fallback label.
func (v Venue) String() string {
	if v.Journal == "" {
		return v.Label
	}
	var b strings.Builder
	b.WriteString(v.Journal)
	if v.Volume != "" {
		b.WriteString(" " + v.Volume)
	}
	if v.Year != "" {
		b.WriteString(" (" + v.Year + ")")
	}
	if v.Page != "" {
		b.WriteString(", " + v.Page)
	}
	return b.String()
}

// FormatVenue builds the venue of a record. A record with publication info
// shows its journal reference, or plain "Preprint" when the entry names no
// journal. A record without publication info is labelled
// "Preprint (<year>)", "(<year>)" or "Preprint" depending on which dates it
// carries.
func FormatVenue(meta inspire.Metadata) Venue {
	if len(meta.PublicationInfo) > 0 {
		pub := meta.PublicationInfo[0]
		if pub.JournalTitle == "" {
			return Venue{Label: "Preprint"}
		}
		v := Venue{
			Journal: pub.JournalTitle,
			Volume:  pub.JournalVolume,
			Page:    pub.PageStart,
		}
		if pub.Year != 0 {
			v.Year = strconv.Itoa(pub.Year)
		}
		if v.Page == "" {
			v.Page = pub.ArtID
		}
		return v
	}

	switch {
	case meta.PreprintDate != "":
		return Venue{Label: "Preprint (" + YearOf(meta.PreprintDate) + ")"}
	case meta.EarliestDate != "":
		return Venue{Label: "(" + YearOf(meta.EarliestDate) + ")"}
	default:
		return Venue{Label: "Preprint"}
	}
}
