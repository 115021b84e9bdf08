package main

import (
	"context"
	"errors"

	"github.com/fjonas/folio/internal/cache"
	"github.com/fjonas/folio/internal/inspire"
	"github.com/fjonas/folio/internal/publication"
	"github.com/fjonas/folio/internal/reference"
	"github.com/fjonas/folio/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	snapshotFromPapers bool
	snapshotOut        string
)

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotFromPapers, "from-papers", false, "Take identifiers from the papers file")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "Output path (default: snapshot_file in the source directory)")
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [ids...]",
	Short: "Fetch records and write the static publication snapshot",
	Long: `Fetch INSPIRE-HEP records and write them as a static snapshot file.

Identifiers come from the arguments, from --from-papers, or from
snapshot.ids in folio.yml, in that order. Records are fetched in batches of
batch_size with batch_delay between batches, sorted newest first and written
as indented JSON into the source directory, where the build falls back to
it when the cache is empty. A remote source requires --out.`,
	RunE: runSnapshot,
}

// SnapshotResponse is the response for the snapshot command.
type SnapshotResponse struct {
	Status    string `json:"status"`
	Path      string `json:"path"`
	Requested int    `json:"requested"`
	Written   int    `json:"written"`
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := mustLoadSite()

	ids := args
	switch {
	case len(ids) > 0:
	case snapshotFromPapers:
		text, err := s.src.Read(ctx, s.cfg.PapersFile)
		if err != nil {
			exitWithError(ExitFetchError, "%v", err)
		}
		ids = s.newExtractor().Extract(string(text))
	default:
		ids = s.cfg.Snapshot.IDs
	}
	if s.cfg.DedupeReferences {
		ids = reference.Dedupe(ids)
	}
	if len(ids) == 0 {
		exitWithError(ExitEmpty, "no identifiers to fetch")
	}

	path, err := snapshotPath(s, snapshotOut)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	records, err := writeSnapshot(ctx, s, ids, path)
	if err != nil {
		if errors.Is(err, inspire.ErrFetchFailed) {
			exitWithError(ExitFetchError, "fetching records: %v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Wrote %d of %d records to %s\n", len(records), len(ids), path)
	} else {
		outputJSON(SnapshotResponse{
			Status:    "written",
			Path:      path,
			Requested: len(ids),
			Written:   len(records),
		})
	}
	return nil
}

// snapshotPath returns where the snapshot is written. Without an explicit
// path it lands in the local source directory, where builds read it.
func snapshotPath(s *site, out string) (string, error) {
	if out != "" {
		return out, nil
	}
	dir, ok := s.src.(source.Dir)
	if !ok {
		return "", errors.New("source is remote: use --out to choose the snapshot path")
	}
	return dir.Path(s.cfg.SnapshotFile), nil
}

// writeSnapshot fetches ids, sorts them newest first and writes the snapshot
// file. The snapshot always looks records up one by one.
func writeSnapshot(ctx context.Context, s *site, ids []string, path string) ([]inspire.Record, error) {
	fetcher := inspire.NewBatchFetcher(s.newClient(), s.fetchOptions())
	records, err := fetcher.Fetch(ctx, ids)
	if err != nil {
		return nil, err
	}
	publication.SortByDate(records)

	if err := cache.WriteSnapshotFile(path, records); err != nil {
		return nil, err
	}
	logger.Info("wrote snapshot", zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}
