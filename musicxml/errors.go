// ABOUTME: Sentinel errors for the extraction pipeline, classified by the
// ABOUTME: batch orchestrator via errors.Is instead of formatted-text matching

package musicxml

import "errors"

var (
	// ErrNoLyrics is returned when the target part has no lyric-bearing notes.
	ErrNoLyrics = errors.New("no lyrics found in target part")

	// ErrPartNotFound is returned when the requested part id is absent.
	ErrPartNotFound = errors.New("part not found")

	// ErrLengthMismatch is returned when an enhanced LRC's word timings run
	// longer than the base LRC allows, and --force was not given.
	ErrLengthMismatch = errors.New("song length mismatch between MusicXML and LRC")
)
