// ABOUTME: `lrclib-match batch` — scan a directory tree and process every
// ABOUTME: MusicXML file under it with a bounded worker pool

package main

import (
	"github.com/spf13/cobra"

	"lrclib-match/batch"
	"lrclib-match/config"
	"lrclib-match/musicxml"
)

var batchOpts batch.RunOptions
var batchConfigFile string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process every MusicXML file under --root in parallel, tracking progress in a state database",
	Args:  cobra.NoArgs,
	RunE:  runBatch,
}

func init() {
	batchOpts.Extract = musicxml.DefaultExtractOptions()

	flags := batchCmd.Flags()
	flags.StringVar(&batchOpts.Root, "root", ".", "root directory; input/output/db defaults are derived from this")
	flags.StringVar(&batchOpts.InputDir, "input-dir", "", "directory to scan for MusicXML files (default: <root>/input)")
	flags.StringVar(&batchOpts.OutputDir, "output-dir", "", "directory to write LRC files into (default: <root>/lrc)")
	flags.StringVar(&batchOpts.BaseLRCDir, "base-lrc-dir", "", "directory of existing LRC files to enhance with word timing, mirroring input-dir's layout")
	flags.StringVar(&batchOpts.DBPath, "db-path", "", "state database path (default: <root>/state.sqlite)")
	flags.IntVar(&batchOpts.Workers, "workers", 0, "worker goroutines (default: NumCPU)")
	flags.IntVar(&batchOpts.Queue, "queue", 0, "job queue depth (default: 5000)")
	flags.StringVar(&batchOpts.Exts, "exts", "", "comma-separated file extensions to scan (default: musicxml,xml)")
	flags.BoolVar(&batchOpts.NoMove, "no-move", false, "leave input files in place instead of moving them into a terminal bucket")
	flags.BoolVar(&batchOpts.NoOutput, "no-output", false, "run the pipeline without writing LRC files, for debug runs")
	flags.StringVar(&batchConfigFile, "config", "", "load defaults for unset flags from this TOML file")
	flags.StringVar(&batchOpts.Extract.Part, "part", batchOpts.Extract.Part, "MusicXML part id to extract lyrics from")
	flags.BoolVar(&batchOpts.Extract.NoDedupe, "no-dedupe", false, "keep duplicate lyric events instead of collapsing repeats")
	flags.BoolVar(&batchOpts.Extract.Force, "force", false, "merge enhanced timing even when lengths disagree")
	flags.Float64Var(&batchOpts.Extract.LengthTolerance, "length-tolerance", batchOpts.Extract.LengthTolerance, "seconds of allowed drift before --force is required")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := newLogger()

	if batchConfigFile != "" {
		cfg, err := config.LoadConfig(batchConfigFile)
		if err != nil {
			return err
		}
		applyBatchConfigDefaults(&batchOpts, cfg)
	}

	return batch.Run(log, batchOpts)
}

// applyBatchConfigDefaults fills any flag left at its zero value with the
// corresponding value from cfg. Flags explicitly set on the command line
// always win, since they overwrite batchOpts before this runs.
func applyBatchConfigDefaults(opts *batch.RunOptions, cfg config.BatchConfig) {
	if opts.InputDir == "" {
		opts.InputDir = cfg.InputDir
	}
	if opts.OutputDir == "" {
		opts.OutputDir = cfg.OutputDir
	}
	if opts.BaseLRCDir == "" {
		opts.BaseLRCDir = cfg.BaseLRCDir
	}
	if opts.DBPath == "" {
		opts.DBPath = cfg.DBPath
	}
	if opts.Workers == 0 {
		opts.Workers = cfg.Workers
	}
	if opts.Queue == 0 {
		opts.Queue = cfg.Queue
	}
	if opts.Exts == "" {
		opts.Exts = cfg.Exts
	}
}
