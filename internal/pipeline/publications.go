package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjonas/folio/internal/cache"
	"github.com/fjonas/folio/internal/inspire"
	"github.com/fjonas/folio/internal/publication"
	"github.com/fjonas/folio/internal/reference"
	"github.com/fjonas/folio/internal/source"
	"go.uber.org/zap"
)

// Default input names.
const (
	DefaultPapersFile = "papers.md"
	DefaultTalksFile  = "talk.bib"
)

// ErrUnavailable is returned when live publication data could not be
// obtained and nothing else was shown.
var ErrUnavailable = errors.New("publications unavailable")

// Publications is the publication pipeline. All dependencies are passed
// in explicitly; nothing is loaded lazily.
type Publications struct {
	Source     source.Reader
	Slot       cache.Slot
	Fetcher    inspire.Fetcher
	Normalizer *publication.Normalizer
	Extractor  *reference.Extractor
	Display    Display
	Logger     *zap.Logger

	// PapersFile is the name of the reference document. Defaults to
	// DefaultPapersFile.
	PapersFile string
	// SnapshotFile is the name of the static snapshot consulted on a cache
	// miss. Empty disables the snapshot.
	SnapshotFile string
	// Dedupe drops repeated identifiers before lookup.
	Dedupe bool
}

func (p *Publications) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Publications) papersFile() string {
	if p.PapersFile == "" {
		return DefaultPapersFile
	}
	return p.PapersFile
}

func (p *Publications) normalizer() *publication.Normalizer {
	if p.Normalizer == nil {
		return publication.NewNormalizer()
	}
	return p.Normalizer
}

func (p *Publications) extractor() *reference.Extractor {
	if p.Extractor == nil {
		return reference.NewExtractor(reference.DefaultPattern)
	}
	return p.Extractor
}

// Run shows cached or snapshot data first, then fetches live records,
// stores them and shows them.
func (p *Publications) Run(ctx context.Context) (Result, error) {
	log := p.logger()

	shown, err := p.showStored(ctx)
	if err != nil {
		return Result{}, err
	}
	if shown.State == "" {
		if err := p.Display.Notice(ctx, Notice{Section: SectionPublications, Kind: NoticeLoading, Message: MsgLoadingPublications}); err != nil {
			return Result{}, err
		}
	}

	text, err := p.Source.Read(ctx, p.papersFile())
	if err != nil {
		return p.unavailable(ctx, shown, fmt.Errorf("reading %s: %w", p.papersFile(), err))
	}

	ids := p.extractor().Extract(string(text))
	if p.Dedupe {
		ids = reference.Dedupe(ids)
	}
	log.Debug("extracted identifiers", zap.Int("count", len(ids)))

	if len(ids) == 0 {
		return p.empty(ctx)
	}

	records, err := p.Fetcher.Fetch(ctx, ids)
	if err != nil {
		return p.unavailable(ctx, shown, err)
	}
	if len(records) == 0 {
		return p.empty(ctx)
	}

	publication.SortByDate(records)
	if err := p.Slot.Store(ctx, records); err != nil {
		log.Warn("storing publications in cache", zap.Error(err))
	}

	pubs := p.normalizer().NormalizeAll(records)
	if err := p.Display.Publications(ctx, pubs, OriginLive); err != nil {
		return Result{}, err
	}
	log.Info("publications updated", zap.Int("count", len(pubs)))

	return Result{State: StateFresh, Origin: OriginLive, Publications: pubs}, nil
}

// Stored shows the cached or snapshot publications without fetching.
func (p *Publications) Stored(ctx context.Context) (Result, error) {
	shown, err := p.showStored(ctx)
	if err != nil {
		return Result{}, err
	}
	if shown.State == "" {
		return p.empty(ctx)
	}
	return shown, nil
}

// showStored displays the cache slot, or the static snapshot when the slot
// is empty. The returned result has an empty State if nothing was shown.
func (p *Publications) showStored(ctx context.Context) (Result, error) {
	log := p.logger()

	snap, err := p.Slot.Load(ctx)
	switch {
	case err == nil && len(snap.Records) > 0:
		return p.show(ctx, snap.Records, OriginCache)
	case errors.Is(err, cache.ErrCorrupt):
		log.Warn("discarding unreadable cache", zap.Error(err))
	case err != nil && !cache.IsMiss(err):
		log.Warn("reading cache", zap.Error(err))
	}

	if p.SnapshotFile == "" {
		return Result{}, nil
	}
	data, err := p.Source.Read(ctx, p.SnapshotFile)
	if err != nil {
		log.Debug("no static snapshot", zap.Error(err))
		return Result{}, nil
	}
	records, err := cache.DecodeSnapshot(p.SnapshotFile, data)
	if err != nil {
		log.Warn("ignoring static snapshot", zap.Error(err))
		return Result{}, nil
	}
	if len(records) == 0 {
		return Result{}, nil
	}
	return p.show(ctx, records, OriginSnapshot)
}

func (p *Publications) show(ctx context.Context, records []inspire.Record, origin Origin) (Result, error) {
	pubs := p.normalizer().NormalizeAll(records)
	publication.SortPublications(pubs)
	if err := p.Display.Publications(ctx, pubs, origin); err != nil {
		return Result{}, err
	}
	p.logger().Debug("showing stored publications", zap.String("origin", string(origin)), zap.Int("count", len(pubs)))
	return Result{State: StateStale, Origin: origin, Publications: pubs}, nil
}

func (p *Publications) unavailable(ctx context.Context, shown Result, err error) (Result, error) {
	if shown.State != "" {
		p.logger().Warn("fetch failed, keeping stored publications",
			zap.String("origin", string(shown.Origin)), zap.Error(err))
		shown.Err = err
		return shown, nil
	}
	if nerr := p.Display.Notice(ctx, Notice{Section: SectionPublications, Kind: NoticeError, Message: MsgPublicationsError}); nerr != nil {
		return Result{}, errors.Join(err, nerr)
	}
	return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func (p *Publications) empty(ctx context.Context) (Result, error) {
	if err := p.Display.Notice(ctx, Notice{Section: SectionPublications, Kind: NoticeEmpty, Message: MsgNoPublications}); err != nil {
		return Result{}, err
	}
	return Result{State: StateEmpty}, nil
}
