package main

import (
	"os"

	"github.com/fjonas/folio/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new folio site",
	Long: `Initialize a new folio site in the current directory (or --site).

Creates folio.yml with every setting at its default. Input files
(papers.md, talk.bib, cv.yml, contactinfo.yaml) are read from the site root
unless source is changed.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsSite(root) {
		exitWithError(ExitError, "directory already contains a folio site")
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		exitWithError(ExitError, "creating site directory: %v", err)
	}

	cfg := config.Default()
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.ConfigFile, err)
	}

	if humanOutput {
		outputHuman("Initialized folio site in %s\n", root)
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   config.ConfigPath(root),
		})
	}
	return nil
}
