package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fjonas/folio/internal/cache"
	"github.com/fjonas/folio/internal/contact"
	"github.com/fjonas/folio/internal/cv"
	"github.com/fjonas/folio/internal/pipeline"
	"github.com/fjonas/folio/internal/render"
	"github.com/fjonas/folio/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var buildNoCache bool

func init() {
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "Do not read or write the publication cache")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build all site fragments once",
	Long: `Build the publication, talk, CV and contact fragments.

Publications and talks are processed concurrently. Cached publications are
written first and replaced once live data arrives; if the fetch fails the
cached list stays in place.

Writes:
  <output_dir>/publications.html
  <output_dir>/talks.html
  <output_dir>/cv.html        (if cv_file exists)
  <output_dir>/contact.html   (if contact_file exists)

A CV or contact file that cannot be read or parsed is replaced by an error
notice in its fragment.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	s := mustLoadSite()

	slot, closeSlot, err := s.openSlot(buildNoCache)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer closeSlot()

	resp, err := buildSite(cmd.Context(), s, slot)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if humanOutput {
		printBuildHuman(resp)
	} else {
		outputJSON(resp)
	}

	if resp.Status != "ok" {
		closeSlot()
		_ = logger.Sync()
		os.Exit(ExitFetchError)
	}
	return nil
}

// buildSite runs every pipeline once and writes the fragments. The error
// return covers setup failures only; pipeline failures are reported in the
// response.
func buildSite(ctx context.Context, s *site, slot cache.Slot) (BuildResponse, error) {
	outDir := s.cfg.OutputPath(s.root)
	target := render.DirTarget{Dir: outDir}
	renderer := render.New()
	display := render.NewSiteDisplay(renderer, target, logger.Named("render"))

	fetcher, err := s.newFetcher(s.newClient())
	if err != nil {
		return BuildResponse{}, err
	}

	pubs := &pipeline.Publications{
		Source:       s.src,
		Slot:         slot,
		Fetcher:      fetcher,
		Normalizer:   s.newNormalizer(),
		Extractor:    s.newExtractor(),
		Display:      display,
		Logger:       logger.Named("publications"),
		PapersFile:   s.cfg.PapersFile,
		SnapshotFile: s.cfg.SnapshotFile,
		Dedupe:       s.cfg.DedupeReferences,
	}
	talks := &pipeline.Talks{
		Source:  s.src,
		Display: display,
		Logger:  logger.Named("talks"),
		File:    s.cfg.TalksFile,
	}

	resp := BuildResponse{Status: "ok", OutputDir: outDir}

	summary, err := pipeline.RunAll(ctx, pubs, talks)
	if err != nil {
		resp.Status = "partial"
		resp.Errors = append(resp.Errors, err.Error())
	}

	resp.Publications = PublicationsSummary{
		State:  summary.Publications.State,
		Origin: summary.Publications.Origin,
		Count:  len(summary.Publications.Publications),
	}
	if summary.Publications.Err != nil {
		resp.Publications.Error = summary.Publications.Err.Error()
	}
	resp.Talks = len(summary.Talks.Talks)
	resp.Fragments = append(resp.Fragments, target.Path(render.FragmentPublications), target.Path(render.FragmentTalks))

	for _, frag := range []struct {
		name  string
		file  string
		label string
		write func(data []byte, w io.Writer) error
	}{
		{render.FragmentCV, s.cfg.CVFile, "CV", func(data []byte, w io.Writer) error {
			sections, err := cv.Parse(data)
			if err != nil {
				return err
			}
			return renderer.CV(w, sections)
		}},
		{render.FragmentContact, s.cfg.ContactFile, "contact info", func(data []byte, w io.Writer) error {
			info, err := contact.Parse(data)
			if err != nil {
				return err
			}
			return renderer.Contact(w, info.Links())
		}},
	} {
		data, err := s.src.Read(ctx, frag.file)
		if errors.Is(err, source.ErrNotFound) {
			logger.Debug("skipping fragment", zap.String("fragment", frag.name), zap.Error(err))
			continue
		}

		var buf bytes.Buffer
		if err == nil {
			err = frag.write(data, &buf)
		}
		if err != nil {
			resp.Status = "partial"
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", frag.file, err))
			buf.Reset()
			msg := fmt.Sprintf("Error loading %s: %v", frag.label, err)
			if nerr := renderer.Notice(&buf, string(pipeline.NoticeError), msg); nerr != nil {
				resp.Errors = append(resp.Errors, nerr.Error())
				continue
			}
		}

		err = target.Write(frag.name, func(w io.Writer) error {
			_, err := buf.WriteTo(w)
			return err
		})
		if err != nil {
			resp.Status = "partial"
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", frag.file, err))
			continue
		}
		resp.Fragments = append(resp.Fragments, target.Path(frag.name))
	}

	return resp, nil
}

func printBuildHuman(resp BuildResponse) {
	outputHuman("Built site fragments in %s\n", resp.OutputDir)
	outputHuman("  publications: %d (%s", resp.Publications.Count, resp.Publications.State)
	if resp.Publications.Origin != "" {
		outputHuman(", from %s", resp.Publications.Origin)
	}
	outputHuman(")\n")
	if resp.Publications.Error != "" {
		outputHuman("  warning: %s\n", resp.Publications.Error)
	}
	outputHuman("  talks: %d\n", resp.Talks)
	for _, f := range resp.Fragments {
		outputHuman("  wrote %s\n", f)
	}
	for _, e := range resp.Errors {
		outputHuman("  error: %s\n", e)
	}
}
