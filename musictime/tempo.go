// ABOUTME: Piecewise-constant tempo map and the position-to-seconds sweep
// ABOUTME: that converts MusicXML score positions into absolute LRC time

package musictime

import (
	"fmt"
	"sort"
)

// defaultBPM is assumed when a score supplies no tempo information at all.
const defaultBPM = 120.0

// TempoEvent marks a change in tempo at a given score position.
type TempoEvent struct {
	Pos Position
	BPM float64
}

// LyricEvent is a single lyric syllable or word at a score position.
// StableIndex is the insertion order, used only to break ties between
// simultaneous events deterministically.
type LyricEvent struct {
	Pos         Position
	Text        string
	StableIndex int
}

// SortTempo sorts tempo events by position, ascending.
func SortTempo(events []TempoEvent) []TempoEvent {
	sorted := make([]TempoEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos.Cmp(sorted[j].Pos) < 0
	})
	return sorted
}

// EnsureTempoZero guarantees the first tempo event sits at position zero. If
// the source supplied no tempo at all, a single synthetic event at the
// default bpm is inserted; if the first supplied event is after position
// zero, a synthetic event carrying that same bpm is prepended.
func EnsureTempoZero(tempo []TempoEvent) []TempoEvent {
	if len(tempo) == 0 {
		return []TempoEvent{{Pos: Zero(), BPM: defaultBPM}}
	}
	if tempo[0].Pos.Cmp(Zero()) > 0 {
		out := make([]TempoEvent, 0, len(tempo)+1)
		out = append(out, TempoEvent{Pos: Zero(), BPM: tempo[0].BPM})
		out = append(out, tempo...)
		return out
	}
	return tempo
}

// SortLyrics sorts lyric events by (position, stable index).
func SortLyrics(events []LyricEvent) []LyricEvent {
	sorted := make([]LyricEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := sorted[i].Pos.Cmp(sorted[j].Pos)
		if c != 0 {
			return c < 0
		}
		return sorted[i].StableIndex < sorted[j].StableIndex
	})
	return sorted
}

// DedupeLyrics drops adjacent events sharing both position and text. events
// must already be sorted by position.
func DedupeLyrics(sorted []LyricEvent) []LyricEvent {
	out := make([]LyricEvent, 0, len(sorted))
	haveLast := false
	var lastPos Position
	var lastText string
	for _, e := range sorted {
		if haveLast && lastPos.Cmp(e.Pos) == 0 && lastText == e.Text {
			continue
		}
		lastPos, lastText, haveLast = e.Pos, e.Text, true
		out = append(out, e)
	}
	return out
}

// Sweep converts an ascending sequence of positions into absolute seconds
// under a non-empty, position-zero-anchored tempo map, in a single linear
// pass. tempo must already have been through SortTempo + EnsureTempoZero.
func Sweep(positions []Position, tempo []TempoEvent) ([]float64, error) {
	if len(tempo) == 0 {
		return nil, fmt.Errorf("musictime: tempo must be non-empty")
	}

	out := make([]float64, 0, len(positions))
	currentPos := Zero()
	currentTime := 0.0
	tempoIdx := 0
	currentBPM := tempo[0].BPM

	for _, pos := range positions {
		for tempoIdx+1 < len(tempo) && tempo[tempoIdx+1].Pos.Cmp(pos) <= 0 {
			next := tempo[tempoIdx+1]
			delta := next.Pos.Sub(currentPos)
			currentTime += delta.Float64() * 60.0 / currentBPM
			currentPos = next.Pos
			tempoIdx++
			currentBPM = next.BPM
		}

		delta := pos.Sub(currentPos)
		if !delta.IsZero() {
			currentTime += delta.Float64() * 60.0 / currentBPM
			currentPos = pos
		}

		out = append(out, currentTime)
	}

	return out, nil
}
