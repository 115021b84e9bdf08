// Package contact loads contact information and turns it into profile links.
package contact

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Info is the raw contact mapping. Values are strings or nested lists;
// only scalar values produce links.
type Info map[string]any

// Link is a rendered contact entry.
type Link struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	URL   string `json:"url"`
	Value string `json:"value"`
}

type mapping struct {
	key    string
	label  string
	icon   string
	prefix string
}

// mappings is ordered; links are emitted in this order.
var mappings = []mapping{
	{"email", "Email", "gmail", "mailto:"},
	{"linkedin_username", "LinkedIn", "linkedin", "https://www.linkedin.com/in/"},
	{"github_username", "GitHub", "github", "https://github.com/"},
	{"orcid_id", "ORCID", "orcid", "https://orcid.org/"},
	{"scholar_userid", "Google Scholar", "googlescholar", "https://scholar.google.com/citations?user="},
}

// Parse decodes a contact document.
func Parse(data []byte) (Info, error) {
	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing contact info: %w", err)
	}
	if info == nil {
		info = Info{}
	}
	return info, nil
}

// Scalar returns the string form of a scalar value, or false for
// missing keys, empty values and nested lists or maps.
func (i Info) Scalar(key string) (string, bool) {
	v, ok := i[key]
	if !ok || v == nil {
		return "", false
	}
	switch v.(type) {
	case []any, map[string]any:
		return "", false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return "", false
	}
	return s, true
}

// Links returns one link per recognised key present in the info.
func (i Info) Links() []Link {
	var links []Link
	for _, m := range mappings {
		value, ok := i.Scalar(m.key)
		if !ok {
			continue
		}
		links = append(links, Link{
			Key:   m.key,
			Label: m.label,
			Icon:  m.icon,
			URL:   m.prefix + value,
			Value: value,
		})
	}
	return links
}
