// ABOUTME: `lrclib-match dedupe-lrclib` — select one canonical track per
// ABOUTME: normalized (title, artist) group from an LRCLIB dump

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lrclib-match/canonical"
)

var dedupeOpts canonical.DedupeOptions
var dedupeArtists string

var dedupeLRCLibCmd = &cobra.Command{
	Use:   "dedupe-lrclib <SRC_DB> <OUT_DB>",
	Short: "Select one canonical track per normalized (title, artist) group from an LRCLIB dump",
	Args:  cobra.ExactArgs(2),
	RunE:  runDedupeLRCLib,
}

func init() {
	flags := dedupeLRCLibCmd.Flags()
	flags.StringVar(&dedupeArtists, "artists", "", "comma-separated artist names to restrict the run to, for fast iteration")
	flags.StringVar(&dedupeOpts.TestQuery, "test", "", "after building the output, run an FTS search for this query and print the results")
}

func runDedupeLRCLib(cmd *cobra.Command, args []string) error {
	log := newLogger()

	dedupeOpts.SourceDB = args[0]
	dedupeOpts.OutputDB = args[1]
	if dedupeArtists != "" {
		for _, a := range strings.Split(dedupeArtists, ",") {
			a = strings.TrimSpace(a)
			if a != "" {
				dedupeOpts.ArtistFilter = append(dedupeOpts.ArtistFilter, a)
			}
		}
	}

	if err := canonical.RunDedupeLRCLib(log, dedupeOpts); err != nil {
		return fmt.Errorf("dedupe-lrclib: %w", err)
	}
	return nil
}
