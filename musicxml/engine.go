// ABOUTME: Ties parsing, the time sweep, and LRC emission/enhancement into
// ABOUTME: the single per-file pipeline the CLI and batch worker both call

package musicxml

import (
	"bytes"
	"fmt"
	"os"

	"lrclib-match/musictime"
)

// ExtractOptions controls a single extraction/enhancement run.
type ExtractOptions struct {
	Part            string
	NoDedupe        bool
	Force           bool
	LengthTolerance float64
}

// DefaultExtractOptions mirrors the CLI's default flag values.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		Part:            "P1",
		LengthTolerance: 5.0,
	}
}

// Result is the output of processing one MusicXML file.
type Result struct {
	Lines []string
}

// ProcessFile reads the MusicXML file at inputPath, extracts timed lyrics for
// opts.Part, and either emits plain LRC lines or, when baseLRCPath is
// non-empty, enhances that base file with word-level timing tags.
func ProcessFile(inputPath string, opts ExtractOptions, baseLRCPath string) (Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("musicxml: reading input %s: %w", inputPath, err)
	}

	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("musicxml: parsing %s as XML: %w", inputPath, err)
	}

	part := FindPart(doc, opts.Part)
	if part == nil {
		return Result{}, fmt.Errorf("%w: part %s in %s", ErrPartNotFound, opts.Part, inputPath)
	}

	lyricEvents, tempoEvents, err := CollectEvents(part)
	if err != nil {
		return Result{}, err
	}

	lyricEvents = musictime.SortLyrics(lyricEvents)
	if !opts.NoDedupe {
		lyricEvents = musictime.DedupeLyrics(lyricEvents)
	}

	tempo := musictime.EnsureTempoZero(musictime.SortTempo(tempoEvents))

	if baseLRCPath != "" {
		wordTimings := BuildWordTimings(lyricEvents)
		lrcRaw, err := os.ReadFile(baseLRCPath)
		if err != nil {
			return Result{}, fmt.Errorf("musicxml: reading base LRC %s: %w", baseLRCPath, err)
		}
		lrcLines := ReadLines(string(lrcRaw))
		metadataTags := ExtractMetadata(doc)

		enhanced, err := MergeEnhancedLRC(lrcLines, wordTimings, tempo, opts.Force, opts.LengthTolerance, metadataTags)
		if err != nil {
			return Result{}, err
		}
		return Result{Lines: enhanced}, nil
	}

	lines, err := PositionsToLRCLines(lyricEvents, tempo)
	if err != nil {
		return Result{}, err
	}
	return Result{Lines: lines}, nil
}
