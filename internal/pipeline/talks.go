package pipeline

import (
	"context"
	"fmt"

	"github.com/fjonas/folio/internal/bibtex"
	"github.com/fjonas/folio/internal/source"
	"go.uber.org/zap"
)

// Talks is the talk pipeline.
type Talks struct {
	Source  source.Reader
	Display Display
	Logger  *zap.Logger

	// File is the name of the talk document. Defaults to DefaultTalksFile.
	File string
}

// Run reads, parses and displays the talk list, newest year first.
func (t *Talks) Run(ctx context.Context) (TalksResult, error) {
	log := t.Logger
	if log == nil {
		log = zap.NewNop()
	}
	file := t.File
	if file == "" {
		file = DefaultTalksFile
	}

	data, err := t.Source.Read(ctx, file)
	if err != nil {
		log.Warn("reading talks", zap.String("file", file), zap.Error(err))
		if nerr := t.Display.Notice(ctx, Notice{Section: SectionTalks, Kind: NoticeError, Message: MsgTalksError}); nerr != nil {
			log.Warn("showing notice", zap.Error(nerr))
		}
		return TalksResult{}, fmt.Errorf("reading %s: %w", file, err)
	}

	talks := bibtex.Talks(bibtex.Parse(string(data)))
	bibtex.SortTalks(talks)
	log.Debug("parsed talks", zap.Int("count", len(talks)))

	if len(talks) == 0 {
		if err := t.Display.Notice(ctx, Notice{Section: SectionTalks, Kind: NoticeEmpty, Message: MsgNoTalks}); err != nil {
			return TalksResult{}, err
		}
		return TalksResult{}, nil
	}

	if err := t.Display.Talks(ctx, talks); err != nil {
		return TalksResult{}, err
	}
	return TalksResult{Talks: talks}, nil
}
