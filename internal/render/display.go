package render

import (
	"context"
	"io"

	"github.com/fjonas/folio/internal/bibtex"
	"github.com/fjonas/folio/internal/pipeline"
	"github.com/fjonas/folio/internal/publication"
	"go.uber.org/zap"
)

// SiteDisplay is a pipeline.Display that writes fragments to a Target.
// A later call for the same section replaces the earlier fragment.
type SiteDisplay struct {
	Renderer *Renderer
	Target   Target
	Logger   *zap.Logger
}

var _ pipeline.Display = (*SiteDisplay)(nil)

// NewSiteDisplay creates a SiteDisplay.
func NewSiteDisplay(r *Renderer, t Target, logger *zap.Logger) *SiteDisplay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteDisplay{Renderer: r, Target: t, Logger: logger}
}

func (d *SiteDisplay) Publications(ctx context.Context, pubs []publication.Publication, origin pipeline.Origin) error {
	d.Logger.Debug("writing publications",
		zap.String("origin", string(origin)), zap.Int("count", len(pubs)))
	return d.Target.Write(FragmentPublications, func(w io.Writer) error {
		return d.Renderer.Publications(w, pubs)
	})
}

func (d *SiteDisplay) Talks(ctx context.Context, talks []bibtex.Talk) error {
	d.Logger.Debug("writing talks", zap.Int("count", len(talks)))
	return d.Target.Write(FragmentTalks, func(w io.Writer) error {
		return d.Renderer.Talks(w, talks)
	})
}

func (d *SiteDisplay) Notice(ctx context.Context, n pipeline.Notice) error {
	d.Logger.Debug("writing notice",
		zap.String("section", n.Section), zap.String("kind", string(n.Kind)))
	return d.Target.Write(n.Section, func(w io.Writer) error {
		return d.Renderer.Notice(w, string(n.Kind), n.Message)
	})
}
