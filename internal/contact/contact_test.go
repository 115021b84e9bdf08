package contact

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLinks(t *testing.T) {
	info, err := Parse([]byte(`
github_username: fjonas
email: florian@example.org
orcid_id: 0000-0002-1825-0097
affiliations:
  - CERN
  - LBNL
unknown_key: ignored
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Link{
		{Key: "email", Label: "Email", Icon: "gmail", URL: "mailto:florian@example.org", Value: "florian@example.org"},
		{Key: "github_username", Label: "GitHub", Icon: "github", URL: "https://github.com/fjonas", Value: "fjonas"},
		{Key: "orcid_id", Label: "ORCID", Icon: "orcid", URL: "https://orcid.org/0000-0002-1825-0097", Value: "0000-0002-1825-0097"},
	}
	if diff := cmp.Diff(want, info.Links()); diff != "" {
		t.Errorf("Links() mismatch (-want +got):\n%s", diff)
	}
}

func TestScalar(t *testing.T) {
	info := Info{
		"scholar_userid": 12345,
		"email":          "",
		"list":           []any{"a"},
		"nil":            nil,
	}

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"scholar_userid", "12345", true},
		{"email", "", false},
		{"list", "", false},
		{"nil", "", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := info.Scalar(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Scalar(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	info, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(info.Links()) != 0 {
		t.Error("empty document should produce no links")
	}
}
