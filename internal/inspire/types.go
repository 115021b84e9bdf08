package inspire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is a literature record as returned by the INSPIRE-HEP API.
// Both the single-record endpoint and search hits share this shape.
type Record struct {
	ID       RecordID `json:"id"`
	Metadata Metadata `json:"metadata"`
}

// RecordID is an INSPIRE control number. The API emits it as a string on
// literature records, but older snapshots and search hits may carry a number.
type RecordID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// Metadata holds the subset of literature metadata folio reads.
type Metadata struct {
	ControlNumber   int               `json:"control_number,omitempty"`
	Titles          []Title           `json:"titles,omitempty"`
	Authors         []Author          `json:"authors,omitempty"`
	Collaborations  []Value           `json:"collaborations,omitempty"`
	PublicationInfo []PublicationInfo `json:"publication_info,omitempty"`
	PreprintDate    string            `json:"preprint_date,omitempty"`
	EarliestDate    string            `json:"earliest_date,omitempty"`
	ArxivEprints    []Value           `json:"arxiv_eprints,omitempty"`
	DOIs            []Value           `json:"dois,omitempty"`
	Abstracts       []Value           `json:"abstracts,omitempty"`
	Documents       []Document        `json:"documents,omitempty"`
	CitationCount   *int              `json:"citation_count,omitempty"`
}

// Title is one entry of metadata.titles.
type Title struct {
	Title  string `json:"title"`
	Source string `json:"source,omitempty"`
}

// Author is one entry of metadata.authors. FullName is "Last, First".
type Author struct {
	FullName string `json:"full_name"`
}

// Value is the generic {"value": ...} object used for collaborations,
// e-prints, DOIs and abstracts.
type Value struct {
	Value string `json:"value"`
}

// PublicationInfo describes where a record was published.
type PublicationInfo struct {
	JournalTitle  string `json:"journal_title,omitempty"`
	JournalVolume string `json:"journal_volume,omitempty"`
	Year          int    `json:"year,omitempty"`
	PageStart     string `json:"page_start,omitempty"`
	ArtID         string `json:"artid,omitempty"`
}

// Document is a downloadable file attached to a record.
type Document struct {
	Key      string `json:"key,omitempty"`
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	Fulltext bool   `json:"fulltext,omitempty"`
}

// searchResponse is the envelope of GET /literature?q=...
type searchResponse struct {
	Hits struct {
		Hits  []Record `json:"hits"`
		Total int      `json:"total"`
	} `json:"hits"`
}

// RecordIDFromInt formats a numeric control number as a RecordID.
func RecordIDFromInt(n int) RecordID {
	return RecordID(strconv.Itoa(n))
}
