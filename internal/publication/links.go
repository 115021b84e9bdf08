package publication

import (
	"fmt"
	"net/url"

	"github.com/fjonas/folio/internal/inspire"
)

// LinkKind identifies the role of a link in the rendered entry.
type LinkKind string

const (
	LinkAbstract  LinkKind = "abstract"
	LinkArxiv     LinkKind = "arxiv"
	LinkDOI       LinkKind = "doi"
	LinkInspire   LinkKind = "inspire"
	LinkPDF       LinkKind = "pdf"
	LinkCitations LinkKind = "citations"
)

// Link is a labelled link. Abstract toggles and citation annotations carry
// no URL.
type Link struct {
	Kind  LinkKind `json:"kind"`
	Label string   `json:"label"`
	URL   string   `json:"url,omitempty"`
}

// URL prefixes for external resolvers.
const (
	ArxivAbsURL      = "https://arxiv.org/abs/"
	DOIResolverURL   = "https://doi.org/"
	InspireRecordURL = "https://inspirehep.net/literature/"
)

// Links assembles the links of a record in display order: abstract toggle,
// arXiv, DOI, INSPIRE record, PDF, citation count.
func Links(id string, meta inspire.Metadata) []Link {
	var links []Link

	if len(meta.Abstracts) > 0 {
		links = append(links, Link{Kind: LinkAbstract, Label: "Abstract"})
	}

	if len(meta.ArxivEprints) > 0 && meta.ArxivEprints[0].Value != "" {
		arxivID := meta.ArxivEprints[0].Value
		links = append(links, Link{
			Kind:  LinkArxiv,
			Label: "arXiv:" + arxivID,
			URL:   ArxivAbsURL + arxivID,
		})
	}

	if len(meta.DOIs) > 0 && meta.DOIs[0].Value != "" {
		links = append(links, Link{
			Kind:  LinkDOI,
			Label: "DOI",
			URL:   DOIResolverURL + meta.DOIs[0].Value,
		})
	}

	links = append(links, Link{
		Kind:  LinkInspire,
		Label: "INSPIRE",
		URL:   InspireRecordURL + url.PathEscape(id),
	})

	if doc, ok := pickDocument(meta.Documents); ok {
		links = append(links, Link{Kind: LinkPDF, Label: "PDF", URL: doc.URL})
	}

	if meta.CitationCount != nil {
		links = append(links, Link{
			Kind:  LinkCitations,
			Label: fmt.Sprintf("%d citations", *meta.CitationCount),
		})
	}

	return links
}

// pickDocument prefers a full-text document, falling back to the first.
func pickDocument(docs []inspire.Document) (inspire.Document, bool) {
	if len(docs) == 0 {
		return inspire.Document{}, false
	}
	for _, d := range docs {
		if d.Fulltext {
			return d, true
		}
	}
	return docs[0], true
}
