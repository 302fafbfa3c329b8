package musictime

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSweepConstantTempo(t *testing.T) {
	tempo := EnsureTempoZero([]TempoEvent{{Pos: Zero(), BPM: 60}})
	positions := []Position{
		NewPosition(0, 1),
		NewPosition(1, 1),
		NewPosition(2, 1),
	}
	secs, err := Sweep(positions, tempo)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.0, 1.0, 2.0}
	for i := range want {
		if !approxEqual(secs[i], want[i]) {
			t.Errorf("index %d: got %v want %v", i, secs[i], want[i])
		}
	}
}

func TestSweepTempoChange(t *testing.T) {
	// Bar 2 (beat 4, 4/4 at divisions-independent beats) changes bpm 60->120.
	tempo := SortTempo([]TempoEvent{
		{Pos: Zero(), BPM: 60},
		{Pos: NewPosition(4, 1), BPM: 120},
	})
	tempo = EnsureTempoZero(tempo)

	// Lyric at bar 3 beat 1 == 8 beats in.
	secs, err := Sweep([]Position{NewPosition(8, 1)}, tempo)
	if err != nil {
		t.Fatal(err)
	}
	// 4 beats @60bpm = 4s, 4 beats @120bpm = 2s -> 6.0s total.
	if !approxEqual(secs[0], 6.0) {
		t.Errorf("got %v want 6.0", secs[0])
	}
}

func TestSweepMonotonic(t *testing.T) {
	tempo := EnsureTempoZero(nil)
	positions := []Position{
		NewPosition(0, 1), NewPosition(1, 4), NewPosition(1, 2), NewPosition(3, 4), NewPosition(1, 1),
	}
	secs, err := Sweep(positions, tempo)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(secs); i++ {
		if secs[i] < secs[i-1] {
			t.Errorf("not monotonic at %d: %v < %v", i, secs[i], secs[i-1])
		}
	}
}

func TestEnsureTempoZeroDefaultsTo120(t *testing.T) {
	tempo := EnsureTempoZero(nil)
	if len(tempo) != 1 || tempo[0].BPM != defaultBPM || !tempo[0].Pos.IsZero() {
		t.Errorf("expected single default tempo event at zero, got %+v", tempo)
	}
}

func TestEnsureTempoZeroPrependsWhenFirstIsLater(t *testing.T) {
	tempo := EnsureTempoZero([]TempoEvent{{Pos: NewPosition(2, 1), BPM: 90}})
	if len(tempo) != 2 || !tempo[0].Pos.IsZero() || tempo[0].BPM != 90 {
		t.Errorf("expected synthetic zero event carrying first bpm, got %+v", tempo)
	}
}

func TestDedupeLyricsDropsAdjacentDuplicates(t *testing.T) {
	events := []LyricEvent{
		{Pos: Zero(), Text: "la", StableIndex: 0},
		{Pos: Zero(), Text: "la", StableIndex: 1},
		{Pos: NewPosition(1, 1), Text: "la", StableIndex: 2},
	}
	out := DedupeLyrics(events)
	if len(out) != 2 {
		t.Errorf("expected 2 survivors, got %d", len(out))
	}
}
