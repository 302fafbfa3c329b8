// ABOUTME: Per-job worker pipeline: extract/enhance, write the LRC, move the
// ABOUTME: input into its terminal bucket, and report one Outcome

package batch

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lrclib-match/musicxml"
)

// Options mirrors the CLI's common extraction flags plus the batch-only
// move/output toggles used for debug runs.
type Options struct {
	Extract    musicxml.ExtractOptions
	InputDir   string
	OutputDir  string
	BaseLRCDir string
	Buckets    Buckets
	NoMove     bool
	NoOutput   bool
}

// RunJob processes one Job to completion: extraction/enhancement, writing
// the LRC (unless suppressed), classifying the result, and moving the
// input into its terminal bucket (unless suppressed). It never returns an
// error; every failure mode is captured in the returned Outcome so the
// worker pool can keep running.
func RunJob(opts Options, job Job) Outcome {
	start := time.Now()
	outcome := Outcome{Job: job, Status: StatusFailed}

	baseLRC := ""
	if opts.BaseLRCDir != "" {
		candidate := filepath.Join(opts.BaseLRCDir, job.RelPath)
		candidate = strings.TrimSuffix(candidate, filepath.Ext(candidate)) + ".lrc"
		if _, err := os.Stat(candidate); err == nil {
			baseLRC = candidate
		}
	}

	result, err := musicxml.ProcessFile(job.InputPath, opts.Extract, baseLRC)
	if err != nil {
		classifyFailure(&outcome, err)
	} else {
		if !opts.NoOutput {
			outPath := strings.TrimSuffix(filepath.Join(opts.OutputDir, job.RelPath), filepath.Ext(job.RelPath)) + ".lrc"
			if err := musicxml.WriteAtomic(outPath, result.Lines); err != nil {
				outcome.Status = StatusFailed
				outcome.ReasonCode = "WRITE_FAILED"
				outcome.Error = err.Error()
			} else {
				outcome.OutputPath = outPath
			}
		}
		if outcome.Status != StatusFailed {
			outcome.Status = StatusDone
			if baseLRC != "" {
				outcome.ReasonCode = "ENHANCED"
			} else {
				outcome.ReasonCode = "EXTRACTED"
			}
		}
	}

	if !opts.NoMove {
		if bucket := opts.Buckets.ForStatus(outcome.Status); bucket != "" {
			dest := filepath.Join(bucket, job.RelPath)
			if err := moveAtomic(job.InputPath, dest); err != nil {
				outcome.Status = StatusFailed
				outcome.ReasonCode = "MOVE_FAILED"
				outcome.Error = "move failed: " + err.Error()
			} else {
				outcome.DestPath = dest
			}
		}
	}

	outcome.DurationMS = time.Since(start).Milliseconds()
	return outcome
}

// classifyFailure maps a musicxml error into one of the batch's terminal
// statuses. No-lyrics, missing-part and length-mismatch errors are matched
// by their sentinel values; an XML parse failure has no sentinel and is
// recognized by its message text ("parsing" and "XML"); anything else is
// FAILED.
func classifyFailure(outcome *Outcome, err error) {
	switch {
	case errors.Is(err, musicxml.ErrNoLyrics):
		outcome.Status = StatusNoLyrics
		outcome.ReasonCode = "NO_LYRICS"
	case errors.Is(err, musicxml.ErrPartNotFound):
		outcome.Status = StatusUnprocessable
		outcome.ReasonCode = "UNPROCESSABLE"
	case errors.Is(err, musicxml.ErrLengthMismatch):
		outcome.Status = StatusFailed
		outcome.ReasonCode = "FAILED"
	case strings.Contains(err.Error(), "parsing") && strings.Contains(err.Error(), "XML"):
		outcome.Status = StatusUnprocessable
		outcome.ReasonCode = "UNPROCESSABLE"
	default:
		outcome.Status = StatusFailed
		outcome.ReasonCode = "FAILED"
	}
	outcome.Error = err.Error()
}

// moveAtomic renames src to dst, falling back to copy+remove whenever the
// rename fails (as it does when src and dst are on different filesystems).
func moveAtomic(src, dst string) error {
	if parent := filepath.Dir(dst); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return err
		}
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
