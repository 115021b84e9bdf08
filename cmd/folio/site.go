package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fjonas/folio/internal/cache"
	"github.com/fjonas/folio/internal/config"
	"github.com/fjonas/folio/internal/inspire"
	"github.com/fjonas/folio/internal/publication"
	"github.com/fjonas/folio/internal/reference"
	"github.com/fjonas/folio/internal/source"
)

// site bundles the loaded configuration of the current site.
type site struct {
	root string
	cfg  *config.Config
	src  source.Reader
}

// getStartingDirectory returns the directory to start searching for a site.
// The --site flag wins over the working directory.
func getStartingDirectory() (string, int) {
	if siteFlag != "" {
		return siteFlag, 0
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustLoadSite finds and loads the site, exits on error.
func mustLoadSite() *site {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	root, err := config.FindSite(start)
	if err != nil {
		if errors.Is(err, config.ErrNotSite) {
			exitWithError(ExitConfigError, "%v (run 'folio init' to create one)", err)
		}
		exitWithError(ExitConfigError, "%v", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	src, err := source.New(cfg.SourceLocation(root))
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	return &site{root: root, cfg: cfg, src: src}
}

// newClient builds the INSPIRE client from configuration.
func (s *site) newClient() *inspire.Client {
	opts := []inspire.ClientOption{
		inspire.WithBaseURL(s.cfg.Inspire.BaseURL),
		inspire.WithRateLimit(s.cfg.Inspire.RateLimit, inspire.RateBurst),
		inspire.WithLogger(logger.Named("inspire")),
	}
	if s.cfg.Inspire.UserAgent != "" {
		opts = append(opts, inspire.WithUserAgent(s.cfg.Inspire.UserAgent))
	}
	return inspire.NewClient(opts...)
}

func (s *site) fetchOptions() inspire.FetchOptions {
	opts := inspire.DefaultFetchOptions()
	opts.BatchSize = s.cfg.Inspire.BatchSize
	opts.BatchDelay = s.cfg.Inspire.BatchDelay
	opts.PageSize = s.cfg.Inspire.PageSize
	opts.Logger = logger.Named("fetch")
	return opts
}

// newFetcher builds the configured fetch strategy.
func (s *site) newFetcher(client *inspire.Client) (inspire.Fetcher, error) {
	return inspire.NewFetcher(s.cfg.Inspire.Strategy, client, s.fetchOptions())
}

func (s *site) newNormalizer() *publication.Normalizer {
	if len(s.cfg.SelfNames) == 0 {
		return publication.NewNormalizer()
	}
	return publication.NewNormalizer(
		publication.WithSelfMatcher(publication.NewSelfMatcher(s.cfg.SelfNames...)),
	)
}

func (s *site) newExtractor() *reference.Extractor {
	pattern := s.cfg.ReferencePattern
	if pattern == "" {
		pattern = reference.DefaultPattern
	}
	return reference.NewExtractor(pattern)
}

// openSlot opens the cache database, or an in-memory slot when noCache is
// set. The returned close function is never nil.
func (s *site) openSlot(noCache bool) (cache.Slot, func(), error) {
	if noCache {
		return cache.NewMemorySlot(), func() {}, nil
	}
	slot, err := cache.OpenSQLiteSlot(s.cfg.CacheFile(s.root))
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache: %w", err)
	}
	return slot, func() { slot.Close() }, nil
}
