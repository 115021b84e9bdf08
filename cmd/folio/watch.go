package main

import (
	"context"
	"strings"

	"github.com/fjonas/folio/internal/source"
	"github.com/fjonas/folio/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchNoCache bool

func init() {
	watchCmd.Flags().BoolVar(&watchNoCache, "no-cache", false, "Do not read or write the publication cache")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild fragments when input files change",
	Long: `Build once, then rebuild whenever papers, talks, CV or contact files change.

Only local sources can be watched. Each rebuild prints one build response.
Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := mustLoadSite()

	dir, ok := s.src.(source.Dir)
	if !ok {
		exitWithError(ExitConfigError, "cannot watch remote source %s", s.cfg.SourceLocation(s.root))
	}

	slot, closeSlot, err := s.openSlot(watchNoCache)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer closeSlot()

	rebuild := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			logger.Info("rebuilding", zap.String("changed", strings.Join(changed, ", ")))
		}
		resp, err := buildSite(ctx, s, slot)
		if err != nil {
			return err
		}
		if humanOutput {
			printBuildHuman(resp)
		} else {
			outputJSON(resp)
		}
		return nil
	}

	if err := rebuild(ctx, nil); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	names := []string{s.cfg.PapersFile, s.cfg.TalksFile, s.cfg.CVFile, s.cfg.ContactFile, s.cfg.SnapshotFile}
	w := watch.New(string(dir), names, rebuild,
		watch.WithDebounce(s.cfg.Watch.Debounce),
		watch.WithLogger(logger.Named("watch")),
	)
	if err := w.Run(ctx); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}
