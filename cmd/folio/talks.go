package main

import (
	"os"

	"github.com/fjonas/folio/internal/pipeline"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(talksCmd)
}

var talksCmd = &cobra.Command{
	Use:   "talks",
	Short: "Print parsed talks, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTalks,
}

func runTalks(cmd *cobra.Command, args []string) error {
	s := mustLoadSite()

	t := &pipeline.Talks{
		Source:  s.src,
		Display: logDisplay{},
		Logger:  logger.Named("talks"),
		File:    s.cfg.TalksFile,
	}
	res, err := t.Run(cmd.Context())
	if err != nil {
		exitWithError(ExitFetchError, "%v", err)
	}

	if humanOutput {
		printTalksHuman(res.Talks)
	} else {
		outputJSON(res)
	}

	if len(res.Talks) == 0 {
		_ = logger.Sync()
		os.Exit(ExitEmpty)
	}
	return nil
}
