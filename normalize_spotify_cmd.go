// ABOUTME: `lrclib-match normalize-spotify` — build the normalized
// ABOUTME: candidate index from a raw Spotify catalog dump

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lrclib-match/spotify"
)

var normalizeOpts spotify.NormalizeOptions

var normalizeSpotifyCmd = &cobra.Command{
	Use:   "normalize-spotify <SRC_DB> [OUT_DB]",
	Short: "Normalize a Spotify catalog dump into a deduplicated candidate index",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runNormalizeSpotify,
}

func init() {
	flags := normalizeSpotifyCmd.Flags()
	flags.BoolVar(&normalizeOpts.LogOnly, "log-only", false, "log read progress every 500,000 rows (debug level, shown with --verbose)")
	flags.BoolVar(&normalizeOpts.SkipPop0Tracks, "skip-pop0-albums", false, "skip building the zero-popularity track/album fallback index")
}

func runNormalizeSpotify(cmd *cobra.Command, args []string) error {
	log := newLogger()

	normalizeOpts.SpotifyDB = args[0]
	normalizeOpts.OutputDB = "normalized.sqlite3"
	if len(args) == 2 {
		normalizeOpts.OutputDB = args[1]
	}

	if err := spotify.RunNormalizeSpotify(log, normalizeOpts); err != nil {
		return fmt.Errorf("normalize-spotify: %w", err)
	}
	return nil
}
