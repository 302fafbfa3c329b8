// ABOUTME: `lrclib-match single` — extract or enhance one MusicXML file

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lrclib-match/musicxml"
)

var singleOpts = musicxml.DefaultExtractOptions()
var singleOutput string
var singleBaseLRC string

var singleCmd = &cobra.Command{
	Use:   "single <INPUT>",
	Short: "Extract timed lyrics from one MusicXML file, or enhance an existing LRC with word timings",
	Args:  cobra.ExactArgs(1),
	RunE:  runSingle,
}

func init() {
	flags := singleCmd.Flags()
	flags.StringVarP(&singleOutput, "output", "o", "", "write LRC to this path (default: <input> with .lrc extension)")
	flags.StringVar(&singleBaseLRC, "lrc", "", "enhance this existing LRC file with word-level timing instead of emitting plain lines")
	flags.StringVar(&singleOpts.Part, "part", singleOpts.Part, "MusicXML part id to extract lyrics from")
	flags.BoolVar(&singleOpts.NoDedupe, "no-dedupe", false, "keep duplicate lyric events instead of collapsing repeats")
	flags.BoolVar(&singleOpts.Force, "force", false, "merge enhanced timing even when the MusicXML and base LRC lengths disagree")
	flags.Float64Var(&singleOpts.LengthTolerance, "length-tolerance", singleOpts.LengthTolerance, "seconds of allowed drift between MusicXML and base LRC length before --force is required")
}

func runSingle(cmd *cobra.Command, args []string) error {
	log := newLogger()
	input := args[0]

	output := singleOutput
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".lrc"
	}

	result, err := musicxml.ProcessFile(input, singleOpts, singleBaseLRC)
	if err != nil {
		return fmt.Errorf("processing %s: %w", input, err)
	}

	if err := musicxml.WriteAtomic(output, result.Lines); err != nil {
		return err
	}

	log.Infof("wrote %d lines to %s", len(result.Lines), output)
	return nil
}
