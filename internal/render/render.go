// Package render turns publications, talks, CV sections and contact links
// into HTML fragments.
package render

import (
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/fjonas/folio/internal/bibtex"
	"github.com/fjonas/folio/internal/contact"
	"github.com/fjonas/folio/internal/cv"
	"github.com/fjonas/folio/internal/publication"
	"github.com/microcosm-cc/bluemonday"
)

// Fragment names written by the site display.
const (
	FragmentPublications = "publications"
	FragmentTalks        = "talks"
	FragmentCV           = "cv"
	FragmentContact      = "contact"
)

var idUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Renderer executes the fragment templates. Inline HTML coming from input
// documents passes through a bluemonday policy before it is emitted.
type Renderer struct {
	policy *bluemonday.Policy
	tmpl   *template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPolicy replaces the default UGC sanitizer policy.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(r *Renderer) {
		r.policy = p
	}
}

// New creates a Renderer. Templates are parsed here and a parse failure
// panics, since the templates are compiled into the binary.
func New(opts ...Option) *Renderer {
	r := &Renderer{policy: bluemonday.UGCPolicy()}
	for _, opt := range opts {
		opt(r)
	}

	funcs := template.FuncMap{
		"sanitize":      r.sanitize,
		"join":          func(parts []string) string { return strings.Join(parts, " ") },
		"abstractID":    abstractID,
		"categoryStyle": categoryStyle,
	}
	t := template.New("folio").Funcs(funcs)
	for _, src := range []string{publicationsTemplate, talksTemplate, cvTemplate, contactTemplate, noticeTemplate} {
		t = template.Must(t.Parse(src))
	}
	r.tmpl = t
	return r
}

func (r *Renderer) sanitize(s string) template.HTML {
	return template.HTML(r.policy.Sanitize(s))
}

func abstractID(id string) string {
	return "abstract-" + idUnsafe.ReplaceAllString(id, "_")
}

func categoryStyle(c bibtex.Category) template.CSS {
	if color := c.Color(); color != "" {
		return template.CSS("color: " + color)
	}
	return ""
}

// Publications renders an ordered publication list.
func (r *Renderer) Publications(w io.Writer, pubs []publication.Publication) error {
	return r.tmpl.ExecuteTemplate(w, "publications", pubs)
}

// Talks renders an ordered talk list.
func (r *Renderer) Talks(w io.Writer, talks []bibtex.Talk) error {
	return r.tmpl.ExecuteTemplate(w, "talks", talks)
}

// CV renders the visible CV sections.
func (r *Renderer) CV(w io.Writer, sections []cv.Section) error {
	return r.tmpl.ExecuteTemplate(w, "cv", cv.Visible(sections))
}

// Contact renders contact links.
func (r *Renderer) Contact(w io.Writer, links []contact.Link) error {
	return r.tmpl.ExecuteTemplate(w, "contact", links)
}

// Notice renders a status message. Kind becomes part of the CSS class.
func (r *Renderer) Notice(w io.Writer, kind, message string) error {
	return r.tmpl.ExecuteTemplate(w, "notice", struct {
		Kind    string
		Message string
	}{kind, message})
}
