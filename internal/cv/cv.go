// Package cv loads the YAML curriculum vitae.
package cv

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SectionType selects how a section is rendered.
type SectionType string

const (
	TypeMap        SectionType = "map"
	TypeTimeTable  SectionType = "time_table"
	TypeNestedList SectionType = "nested_list"
	TypeList       SectionType = "list"
)

// HiddenSection is the title of the section the site never renders; its
// content is shown on the contact block instead.
const HiddenSection = "General Information"

// Section is one CV section. Only the field matching Type is populated.
type Section struct {
	Title    string      `json:"title"`
	Type     SectionType `json:"type"`
	Map      []MapItem   `json:"map,omitempty"`
	Timeline []TimeItem  `json:"timeline,omitempty"`
	Groups   []Group     `json:"groups,omitempty"`
	Items    []string    `json:"items,omitempty"`
}

// MapItem is a row of a key-value table.
type MapItem struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// TimeItem is a row of a chronological table. A row either lists Items
// (honors, awards) or describes a position.
type TimeItem struct {
	Year            string   `yaml:"year" json:"year"`
	Title           string   `yaml:"title,omitempty" json:"title,omitempty"`
	Institution     string   `yaml:"institution,omitempty" json:"institution,omitempty"`
	Department      string   `yaml:"department,omitempty" json:"department,omitempty"`
	Location        string   `yaml:"location,omitempty" json:"location,omitempty"`
	MainDescription []string `yaml:"maindescription,omitempty" json:"maindescription,omitempty"`
	Description     []string `yaml:"description,omitempty" json:"description,omitempty"`
	Items           []string `yaml:"items,omitempty" json:"items,omitempty"`
}

// Group is a titled list inside a nested_list section.
type Group struct {
	Title string   `yaml:"title" json:"title"`
	Items []string `yaml:"items,omitempty" json:"items,omitempty"`
}

// UnmarshalYAML decodes contents according to the section type. Sections
// of unknown type keep their title and type and no contents.
func (s *Section) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Title    string    `yaml:"title"`
		Type     string    `yaml:"type"`
		Contents yaml.Node `yaml:"contents"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	s.Title = raw.Title
	s.Type = SectionType(raw.Type)

	if raw.Contents.Kind == 0 {
		return nil
	}

	var err error
	switch s.Type {
	case TypeMap:
		err = raw.Contents.Decode(&s.Map)
	case TypeTimeTable:
		err = raw.Contents.Decode(&s.Timeline)
	case TypeNestedList:
		err = raw.Contents.Decode(&s.Groups)
	case TypeList:
		err = raw.Contents.Decode(&s.Items)
	}
	if err != nil {
		return fmt.Errorf("section %q: %w", s.Title, err)
	}
	return nil
}

// Known reports whether the section type has a renderer.
func (s Section) Known() bool {
	switch s.Type {
	case TypeMap, TypeTimeTable, TypeNestedList, TypeList:
		return true
	}
	return false
}

// Parse decodes a CV document: an ordered sequence of sections.
func Parse(data []byte) ([]Section, error) {
	var sections []Section
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("parsing CV: %w", err)
	}
	return sections, nil
}

// Visible returns the sections that should be rendered, in order.
func Visible(sections []Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if s.Title == HiddenSection || !s.Known() {
			continue
		}
		out = append(out, s)
	}
	return out
}
