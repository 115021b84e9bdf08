package main

import (
	"errors"
	"time"

	"github.com/fjonas/folio/internal/cache"
	"github.com/spf13/cobra"
)

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the publication cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the cache holds",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cached publication list",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

// CacheInfoResponse is the response for cache info.
type CacheInfoResponse struct {
	Path      string     `json:"path"`
	Key       string     `json:"key"`
	Empty     bool       `json:"empty"`
	Corrupt   bool       `json:"corrupt,omitempty"`
	Bytes     int        `json:"bytes,omitempty"`
	Records   int        `json:"records,omitempty"`
	WrittenAt *time.Time `json:"written_at,omitempty"`
}

func openSQLiteSlot(s *site) (*cache.SQLiteSlot, string) {
	path := s.cfg.CacheFile(s.root)
	slot, err := cache.OpenSQLiteSlot(path)
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	return slot, path
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := mustLoadSite()
	slot, path := openSQLiteSlot(s)
	defer slot.Close()

	resp := CacheInfoResponse{Path: path, Key: cache.SlotKey}

	info, err := slot.Info(ctx)
	switch {
	case errors.Is(err, cache.ErrMiss):
		resp.Empty = true
	case err != nil:
		exitWithError(ExitError, "reading cache: %v", err)
	default:
		resp.Bytes = info.Bytes
		writtenAt := info.WrittenAt
		resp.WrittenAt = &writtenAt

		snap, err := slot.Load(ctx)
		switch {
		case errors.Is(err, cache.ErrCorrupt):
			resp.Corrupt = true
		case err != nil:
			exitWithError(ExitError, "reading cache: %v", err)
		default:
			resp.Records = len(snap.Records)
		}
	}

	if humanOutput {
		outputHuman("Cache: %s\n", resp.Path)
		switch {
		case resp.Empty:
			outputHuman("  empty\n")
		case resp.Corrupt:
			outputHuman("  unreadable (%d bytes), will be replaced on the next build\n", resp.Bytes)
		default:
			outputHuman("  %d records, %d bytes, written %s\n",
				resp.Records, resp.Bytes, resp.WrittenAt.Local().Format(time.RFC1123))
		}
	} else {
		outputJSON(resp)
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	s := mustLoadSite()
	slot, path := openSQLiteSlot(s)
	defer slot.Close()

	if err := slot.Clear(cmd.Context()); err != nil {
		exitWithError(ExitError, "clearing cache: %v", err)
	}

	if humanOutput {
		outputHuman("Cleared %s\n", path)
	} else {
		outputJSON(StatusResponse{Status: "cleared", Path: path})
	}
	return nil
}
