// Package pipeline runs the publication and talk pipelines: it reads the
// inputs, fetches and normalizes records, keeps the cache current and hands
// the results to a Display.
package pipeline

import (
	"context"
	"errors"

	"github.com/fjonas/folio/internal/bibtex"
	"github.com/fjonas/folio/internal/publication"
	"golang.org/x/sync/errgroup"
)

// Origin describes where displayed publications came from.
type Origin string

const (
	OriginCache    Origin = "cache"
	OriginSnapshot Origin = "snapshot"
	OriginLive     Origin = "live"
)

// NoticeKind classifies a status notice.
type NoticeKind string

const (
	NoticeLoading NoticeKind = "loading"
	NoticeEmpty   NoticeKind = "empty"
	NoticeError   NoticeKind = "error"
)

// Section names used on notices.
const (
	SectionPublications = "publications"
	SectionTalks        = "talks"
)

// Notice is a status message shown in place of, or before, results.
type Notice struct {
	Section string     `json:"section"`
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Default notice messages.
const (
	MsgLoadingPublications = "Loading publications..."
	MsgNoPublications      = "No publications found."
	MsgPublicationsError   = "Error loading publications."
	MsgNoTalks             = "No talks found."
	MsgTalksError          = "Error loading talks."
)

// Display receives pipeline output. Publications may be called more than
// once per run: first with cached data, then with live data.
type Display interface {
	Publications(ctx context.Context, pubs []publication.Publication, origin Origin) error
	Talks(ctx context.Context, talks []bibtex.Talk) error
	Notice(ctx context.Context, n Notice) error
}

// State is the outcome of a publication run.
type State string

const (
	// StateFresh means live data was fetched and displayed.
	StateFresh State = "fresh"
	// StateStale means the fetch failed but earlier data stayed on display.
	StateStale State = "stale"
	// StateEmpty means there was nothing to show.
	StateEmpty State = "empty"
)

// Result summarizes a publication run.
type Result struct {
	State        State                     `json:"state"`
	Origin       Origin                    `json:"origin,omitempty"`
	Publications []publication.Publication `json:"publications,omitempty"`
	// Err is the fetch failure hidden behind stale data.
	Err error `json:"-"`
}

// TalksResult summarizes a talk run.
type TalksResult struct {
	Talks []bibtex.Talk `json:"talks"`
}

// Summary combines the results of RunAll.
type Summary struct {
	Publications Result      `json:"publications"`
	Talks        TalksResult `json:"talks"`
}

// RunAll runs both pipelines concurrently. They share no state, so a
// failure in one does not cancel the other; errors are joined.
func RunAll(ctx context.Context, pubs *Publications, talks *Talks) (Summary, error) {
	var (
		g                 errgroup.Group
		summary           Summary
		pubsErr, talksErr error
	)

	g.Go(func() error {
		summary.Publications, pubsErr = pubs.Run(ctx)
		return nil
	})
	g.Go(func() error {
		summary.Talks, talksErr = talks.Run(ctx)
		return nil
	})
	_ = g.Wait()

	return summary, errors.Join(pubsErr, talksErr)
}
