package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/fjonas/folio/internal/bibtex"
	"github.com/fjonas/folio/internal/cache"
	"github.com/fjonas/folio/internal/inspire"
	"github.com/fjonas/folio/internal/publication"
	"github.com/fjonas/folio/internal/source"
	"github.com/google/go-cmp/cmp"
)

// fakeDisplay records every call in order.
type fakeDisplay struct {
	mu     sync.Mutex
	events []string
	pubs   [][]publication.Publication
	talks  []bibtex.Talk
}

func (d *fakeDisplay) Publications(ctx context.Context, pubs []publication.Publication, origin Origin) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, fmt.Sprintf("publications:%s:%d", origin, len(pubs)))
	d.pubs = append(d.pubs, pubs)
	return nil
}

func (d *fakeDisplay) Talks(ctx context.Context, talks []bibtex.Talk) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, fmt.Sprintf("talks:%d", len(talks)))
	d.talks = talks
	return nil
}

func (d *fakeDisplay) Notice(ctx context.Context, n Notice) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, fmt.Sprintf("notice:%s:%s", n.Section, n.Kind))
	return nil
}

// fakeSource serves documents from a map.
type fakeSource map[string]string

func (s fakeSource) Read(ctx context.Context, name string) ([]byte, error) {
	text, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", source.ErrUnavailable, name)
	}
	return []byte(text), nil
}

// fakeFetcher returns canned records and counts calls.
type fakeFetcher struct {
	records []inspire.Record
	err     error
	calls   int
	ids     []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, ids []string) ([]inspire.Record, error) {
	f.calls++
	f.ids = ids
	return f.records, f.err
}

// failingSlot fails every operation with a storage error.
type failingSlot struct{}

func (failingSlot) Load(ctx context.Context) (cache.Snapshot, error) {
	return cache.Snapshot{}, errors.New("disk on fire")
}

func (failingSlot) Store(ctx context.Context, records []inspire.Record) error {
	return errors.New("disk on fire")
}

// corruptSlot holds a value that no longer decodes.
type corruptSlot struct {
	stored []inspire.Record
}

func (s *corruptSlot) Load(ctx context.Context) (cache.Snapshot, error) {
	return cache.Snapshot{}, fmt.Errorf("%w: unexpected end of JSON input", cache.ErrCorrupt)
}

func (s *corruptSlot) Store(ctx context.Context, records []inspire.Record) error {
	s.stored = records
	return nil
}

func record(id, date, title string) inspire.Record {
	return inspire.Record{
		ID: inspire.RecordID(id),
		Metadata: inspire.Metadata{
			Titles:       []inspire.Title{{Title: title}},
			PreprintDate: date,
		},
	}
}

const papers = `# Papers
- [Old](https://inspirehep.net/literature/1)
- [New](https://inspirehep.net/literature/2)
`

func newPubs(src fakeSource, slot cache.Slot, f *fakeFetcher, d *fakeDisplay) *Publications {
	return &Publications{
		Source:       src,
		Slot:         slot,
		Fetcher:      f,
		Display:      d,
		SnapshotFile: cache.DefaultSnapshotFile,
	}
}

func TestPublications_LiveFetch(t *testing.T) {
	slot := cache.NewMemorySlot()
	fetcher := &fakeFetcher{records: []inspire.Record{
		record("1", "2019-01-01", "Old"),
		record("2", "2023-06-01", "New"),
	}}
	display := &fakeDisplay{}

	res, err := newPubs(fakeSource{"papers.md": papers}, slot, fetcher, display).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != StateFresh || res.Origin != OriginLive {
		t.Errorf("Result = %+v", res)
	}

	wantEvents := []string{"notice:publications:loading", "publications:live:2"}
	if diff := cmp.Diff(wantEvents, display.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2"}, fetcher.ids); diff != "" {
		t.Errorf("fetched ids mismatch (-want +got):\n%s", diff)
	}

	// Newest first, and the cache holds the sorted raw records.
	if res.Publications[0].Title != "New" {
		t.Errorf("first publication = %q, want New", res.Publications[0].Title)
	}
	snap, err := slot.Load(context.Background())
	if err != nil {
		t.Fatalf("slot.Load() error = %v", err)
	}
	if snap.Records[0].ID != "2" {
		t.Errorf("cached first id = %q, want 2", snap.Records[0].ID)
	}
}

func TestPublications_CacheThenLive(t *testing.T) {
	ctx := context.Background()
	slot := cache.NewMemorySlot()
	if err := slot.Store(ctx, []inspire.Record{record("1", "2019", "Cached")}); err != nil {
		t.Fatal(err)
	}
	fetcher := &fakeFetcher{records: []inspire.Record{record("1", "2019", "Live")}}
	display := &fakeDisplay{}

	res, err := newPubs(fakeSource{"papers.md": papers}, slot, fetcher, display).Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantEvents := []string{"publications:cache:1", "publications:live:1"}
	if diff := cmp.Diff(wantEvents, display.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if res.State != StateFresh || res.Publications[0].Title != "Live" {
		t.Errorf("Result = %+v", res)
	}
}

func TestPublications_StaleOnFetchFailure(t *testing.T) {
	ctx := context.Background()
	slot := cache.NewMemorySlot()
	if err := slot.Store(ctx, []inspire.Record{record("1", "2019", "Cached")}); err != nil {
		t.Fatal(err)
	}
	fetcher := &fakeFetcher{err: inspire.ErrFetchFailed}
	display := &fakeDisplay{}

	res, err := newPubs(fakeSource{"papers.md": papers}, slot, fetcher, display).Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil with stale data", err)
	}
	if res.State != StateStale || res.Origin != OriginCache {
		t.Errorf("Result = %+v", res)
	}
	if !errors.Is(res.Err, inspire.ErrFetchFailed) {
		t.Errorf("Result.Err = %v, want ErrFetchFailed", res.Err)
	}
	wantEvents := []string{"publications:cache:1"}
	if diff := cmp.Diff(wantEvents, display.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPublications_ErrorWithNothingShown(t *testing.T) {
	fetcher := &fakeFetcher{err: inspire.ErrFetchFailed}
	display := &fakeDisplay{}

	_, err := newPubs(fakeSource{"papers.md": papers}, cache.NewMemorySlot(), fetcher, display).Run(context.Background())
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, inspire.ErrFetchFailed) {
		t.Fatalf("Run() error = %v, want ErrUnavailable wrapping ErrFetchFailed", err)
	}
	wantEvents := []string{"notice:publications:loading", "notice:publications:error"}
	if diff := cmp.Diff(wantEvents, display.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPublications_MissingPapersFile(t *testing.T) {
	fetcher := &fakeFetcher{}
	display := &fakeDisplay{}

	_, err := newPubs(fakeSource{}, cache.NewMemorySlot(), fetcher, display).Run(context.Background())
	if !errors.Is(err, source.ErrUnavailable) {
		t.Fatalf("Run() error = %v, want source.ErrUnavailable", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times", fetcher.calls)
	}
}

func TestPublications_NoIdentifiers(t *testing.T) {
	fetcher := &fakeFetcher{}
	display := &fakeDisplay{}
	src := fakeSource{"papers.md": "No links here.\nhttps://example.org/literature/5\n"}

	res, err := newPubs(src, cache.NewMemorySlot(), fetcher, display).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != StateEmpty {
		t.Errorf("State = %q, want empty", res.State)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times, want 0", fetcher.calls)
	}
	wantEvents := []string{"notice:publications:loading", "notice:publications:empty"}
	if diff := cmp.Diff(wantEvents, display.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPublications_StaticSnapshot(t *testing.T) {
	src := fakeSource{
		"papers.md":         papers,
		"publications.json": `[{"id": 7, "metadata": {"titles": [{"title": "From snapshot"}]}}]`,
	}
	fetcher := &fakeFetcher{err: inspire.ErrFetchFailed}
	display := &fakeDisplay{}

	res, err := newPubs(src, cache.NewMemorySlot(), fetcher, display).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != StateStale || res.Origin != OriginSnapshot {
		t.Errorf("Result = %+v", res)
	}
	if res.Publications[0].ID != "7" {
		t.Errorf("ID = %q, want 7", res.Publications[0].ID)
	}
}

func TestPublications_CorruptSnapshotIgnored(t *testing.T) {
	src := fakeSource{"papers.md": papers, "publications.json": `{"oops": true}`}
	fetcher := &fakeFetcher{records: []inspire.Record{record("1", "2020", "Live")}}
	display := &fakeDisplay{}

	res, err := newPubs(src, cache.NewMemorySlot(), fetcher, display).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != StateFresh {
		t.Errorf("State = %q, want fresh", res.State)
	}
	if display.events[0] != "notice:publications:loading" {
		t.Errorf("first event = %q", display.events[0])
	}
}

func TestPublications_CorruptCacheFallsBackToSnapshot(t *testing.T) {
	src := fakeSource{
		"papers.md":         papers,
		"publications.json": `[{"id": 7, "metadata": {"titles": [{"title": "From snapshot"}]}}]`,
	}
	slot := &corruptSlot{}
	fetcher := &fakeFetcher{records: []inspire.Record{
		record("1", "2019-01-01", "Old"),
		record("2", "2023-06-01", "New"),
	}}
	display := &fakeDisplay{}

	res, err := newPubs(src, slot, fetcher, display).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != StateFresh || res.Origin != OriginLive {
		t.Errorf("Result = %+v", res)
	}
	wantEvents := []string{"publications:snapshot:1", "publications:live:2"}
	if diff := cmp.Diff(wantEvents, display.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if len(slot.stored) != 2 {
		t.Errorf("stored %d records, want the live list to replace the corrupt value", len(slot.stored))
	}
}

func TestPublications_CorruptCacheWithoutSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{records: []inspire.Record{record("1", "2020", "Live")}}
	display := &fakeDisplay{}

	res, err := newPubs(fakeSource{"papers.md": papers}, &corruptSlot{}, fetcher, display).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != StateFresh {
		t.Errorf("State = %q, want fresh", res.State)
	}
	wantEvents := []string{"notice:publications:loading", "publications:live:1"}
	if diff := cmp.Diff(wantEvents, display.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPublications_StorageFailureIsNotFatal(t *testing.T) {
	fetcher := &fakeFetcher{records: []inspire.Record{record("1", "2020", "Live")}}
	display := &fakeDisplay{}
	p := newPubs(fakeSource{"papers.md": papers}, failingSlot{}, fetcher, display)
	p.SnapshotFile = ""

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != StateFresh {
		t.Errorf("State = %q, want fresh", res.State)
	}
}

func TestPublications_Dedupe(t *testing.T) {
	src := fakeSource{"papers.md": papers + "- [Again](https://inspirehep.net/literature/1)\n"}
	tests := []struct {
		name   string
		dedupe bool
		want   []string
	}{
		{"keep duplicates", false, []string{"1", "2", "1"}},
		{"dedupe", true, []string{"1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{records: []inspire.Record{record("1", "2020", "X")}}
			p := newPubs(src, cache.NewMemorySlot(), fetcher, &fakeDisplay{})
			p.Dedupe = tt.dedupe
			if _, err := p.Run(context.Background()); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, fetcher.ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

const talkBib = `
@talk{a, title = {Old {ALICE} talk}, note = {QM}, year = 2019, abbr = {Talk}}
@talk{b, title = {New poster}, year = 2023, abbr = {Poster}}
`

func TestTalks_Run(t *testing.T) {
	display := &fakeDisplay{}
	talks := &Talks{Source: fakeSource{"talk.bib": talkBib}, Display: display}

	res, err := talks.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Talks) != 2 || res.Talks[0].Key != "b" {
		t.Errorf("Talks = %+v", res.Talks)
	}
	if diff := cmp.Diff([]string{"talks:2"}, display.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTalks_Missing(t *testing.T) {
	display := &fakeDisplay{}
	talks := &Talks{Source: fakeSource{}, Display: display}

	if _, err := talks.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil")
	}
	if diff := cmp.Diff([]string{"notice:talks:error"}, display.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTalks_Empty(t *testing.T) {
	display := &fakeDisplay{}
	talks := &Talks{Source: fakeSource{"talk.bib": "% nothing\n"}, Display: display}

	if _, err := talks.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff([]string{"notice:talks:empty"}, display.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAll(t *testing.T) {
	display := &fakeDisplay{}
	src := fakeSource{"papers.md": papers, "talk.bib": talkBib}
	pubs := newPubs(src, cache.NewMemorySlot(), &fakeFetcher{records: []inspire.Record{record("1", "2020", "X")}}, display)
	talks := &Talks{Source: src, Display: display}

	sum, err := RunAll(context.Background(), pubs, talks)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if sum.Publications.State != StateFresh || len(sum.Talks.Talks) != 2 {
		t.Errorf("Summary = %+v", sum)
	}
}

func TestRunAll_TalkFailureDoesNotStopPublications(t *testing.T) {
	display := &fakeDisplay{}
	src := fakeSource{"papers.md": papers}
	pubs := newPubs(src, cache.NewMemorySlot(), &fakeFetcher{records: []inspire.Record{record("1", "2020", "X")}}, display)
	talks := &Talks{Source: src, Display: display}

	sum, err := RunAll(context.Background(), pubs, talks)
	if err == nil || !strings.Contains(err.Error(), "talk.bib") {
		t.Errorf("RunAll() error = %v, want talk.bib failure", err)
	}
	if sum.Publications.State != StateFresh {
		t.Errorf("publications State = %q, want fresh", sum.Publications.State)
	}
}

func TestPublications_Stored(t *testing.T) {
	ctx := context.Background()
	slot := cache.NewMemorySlot()
	fetcher := &fakeFetcher{}
	display := &fakeDisplay{}
	p := newPubs(fakeSource{}, slot, fetcher, display)

	res, err := p.Stored(ctx)
	if err != nil {
		t.Fatalf("Stored() error = %v", err)
	}
	if res.State != StateEmpty {
		t.Errorf("State = %q, want empty", res.State)
	}

	if err := slot.Store(ctx, []inspire.Record{record("3", "2021", "Cached")}); err != nil {
		t.Fatal(err)
	}
	res, err = p.Stored(ctx)
	if err != nil {
		t.Fatalf("Stored() error = %v", err)
	}
	if res.Origin != OriginCache || len(res.Publications) != 1 {
		t.Errorf("Result = %+v", res)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times", fetcher.calls)
	}
}
