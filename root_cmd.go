// ABOUTME: The cobra root command all subcommands attach to, plus the
// ABOUTME: shared --verbose flag and logger construction

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lrclib-match/logging"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "lrclib-match",
	Short: "Match Spotify tracks against LRCLIB lyrics and extract timed LRC from MusicXML",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(singleCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(normalizeSpotifyCmd)
	rootCmd.AddCommand(dedupeLRCLibCmd)
}

func newLogger() *zap.SugaredLogger {
	return logging.New(verboseFlag)
}
