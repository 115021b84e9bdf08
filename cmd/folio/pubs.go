package main

import (
	"os"

	"github.com/fjonas/folio/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	pubsNoCache bool
	pubsCached  bool
)

func init() {
	pubsCmd.Flags().BoolVar(&pubsNoCache, "no-cache", false, "Do not read or write the publication cache")
	pubsCmd.Flags().BoolVar(&pubsCached, "cached", false, "Print the cached list without fetching")
	rootCmd.AddCommand(pubsCmd)
}

var pubsCmd = &cobra.Command{
	Use:   "pubs",
	Short: "Print normalized publications",
	Long: `Run the publication pipeline and print the normalized records.

With --cached, the cached list (or the static snapshot) is printed and no
request is made.`,
	Args: cobra.NoArgs,
	RunE: runPubs,
}

func runPubs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := mustLoadSite()

	slot, closeSlot, err := s.openSlot(pubsNoCache)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer closeSlot()

	p := &pipeline.Publications{
		Source:       s.src,
		Slot:         slot,
		Normalizer:   s.newNormalizer(),
		Extractor:    s.newExtractor(),
		Display:      logDisplay{},
		Logger:       logger.Named("publications"),
		PapersFile:   s.cfg.PapersFile,
		SnapshotFile: s.cfg.SnapshotFile,
		Dedupe:       s.cfg.DedupeReferences,
	}

	var res pipeline.Result
	if pubsCached {
		res, err = p.Stored(ctx)
	} else {
		p.Fetcher, err = s.newFetcher(s.newClient())
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		res, err = p.Run(ctx)
	}
	if err != nil {
		exitWithError(ExitFetchError, "%v", err)
	}

	if humanOutput {
		printPublicationsHuman(res.Publications)
	} else {
		outputJSON(res)
	}

	if len(res.Publications) == 0 {
		closeSlot()
		_ = logger.Sync()
		os.Exit(ExitEmpty)
	}
	return nil
}
