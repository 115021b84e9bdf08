package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fjonas/folio/internal/bibtex"
	"github.com/fjonas/folio/internal/pipeline"
	"github.com/fjonas/folio/internal/publication"
	"go.uber.org/zap"
)

// Constants for output formatting.
const (
	TitleMaxLen   = 70 // Title truncation in list output
	TextWrapWidth = 68 // Wrap width for author lines
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	_ = logger.Sync()
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PublicationsSummary describes the publication fragment of a build.
type PublicationsSummary struct {
	State  pipeline.State  `json:"state"`
	Origin pipeline.Origin `json:"origin,omitempty"`
	Count  int             `json:"count"`
	Error  string          `json:"error,omitempty"`
}

// BuildResponse is the response for build and watch rebuilds.
type BuildResponse struct {
	Status       string              `json:"status"`
	OutputDir    string              `json:"output_dir"`
	Publications PublicationsSummary `json:"publications"`
	Talks        int                 `json:"talks"`
	Fragments    []string            `json:"fragments"`
	Errors       []string            `json:"errors,omitempty"`
}

// logDisplay is a pipeline.Display for commands that print results
// themselves. Notices are logged.
type logDisplay struct{}

func (logDisplay) Publications(ctx context.Context, pubs []publication.Publication, origin pipeline.Origin) error {
	logger.Debug("publications ready", zap.String("origin", string(origin)), zap.Int("count", len(pubs)))
	return nil
}

func (logDisplay) Talks(ctx context.Context, talks []bibtex.Talk) error {
	return nil
}

func (logDisplay) Notice(ctx context.Context, n pipeline.Notice) error {
	logger.Info(n.Message, zap.String("section", n.Section), zap.String("kind", string(n.Kind)))
	return nil
}

// printPublicationsHuman prints publications as a numbered list.
func printPublicationsHuman(pubs []publication.Publication) {
	for i, p := range pubs {
		fmt.Printf("%d. %s\n", i+1, truncateString(p.Title, TitleMaxLen))
		if line := p.AuthorLine(); line != "" {
			fmt.Printf("   %s\n", wrapText(line, TextWrapWidth, "   "))
		}
		fmt.Printf("   %s [%s]\n", p.Venue.String(), p.DateKey)
		for _, l := range p.Links {
			if l.URL != "" {
				fmt.Printf("   %s: %s\n", l.Label, l.URL)
			}
		}
		fmt.Println()
	}
}

// printTalksHuman prints talks one per line.
func printTalksHuman(talks []bibtex.Talk) {
	for _, t := range talks {
		category := ""
		if t.Category != "" {
			category = " [" + string(t.Category) + "]"
		}
		when := fmt.Sprint(t.Year)
		if t.Month != "" {
			when = t.Month + " " + when
		}
		fmt.Printf("%s  %s%s\n      %s\n", when, truncateString(t.CleanTitle(), TitleMaxLen), category, t.Event())
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n"+indent)
}
