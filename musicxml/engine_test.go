package musicxml

import (
	"strings"
	"testing"

	"lrclib-match/musictime"
)

const scoreOneMeasure = `<?xml version="1.0"?>
<score-partwise>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>1</divisions></attributes>
      <direction><sound tempo="60"/></direction>
      <note>
        <duration>1</duration>
        <lyric><text>Hel</text></lyric>
      </note>
      <note>
        <duration>1</duration>
        <lyric><text>lo-</text></lyric>
      </note>
      <note>
        <duration>1</duration>
        <lyric><text>world</text></lyric>
      </note>
    </measure>
  </part>
</score-partwise>`

func TestScenarioOneMeasureConstantTempo(t *testing.T) {
	doc, err := Parse(strings.NewReader(scoreOneMeasure))
	if err != nil {
		t.Fatal(err)
	}
	part := FindPart(doc, "P1")
	if part == nil {
		t.Fatal("part P1 not found")
	}

	lyrics, tempoEvents, err := CollectEvents(part)
	if err != nil {
		t.Fatal(err)
	}

	tempo := musictime.EnsureTempoZero(musictime.SortTempo(tempoEvents))
	lines, err := PositionsToLRCLines(lyrics, tempo)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"[00:00.00] Hel", "[00:01.00] lo-", "[00:02.00] world"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q want %q", i, lines[i], want[i])
		}
	}
}

func TestScenarioWordTimingsJoinHyphen(t *testing.T) {
	doc, err := Parse(strings.NewReader(scoreOneMeasure))
	if err != nil {
		t.Fatal(err)
	}
	part := FindPart(doc, "P1")
	lyrics, _, err := CollectEvents(part)
	if err != nil {
		t.Fatal(err)
	}

	words := BuildWordTimings(lyrics)
	if len(words) != 2 {
		t.Fatalf("expected 2 joined words, got %d: %+v", len(words), words)
	}
	if words[0].Text != "Hello" || words[1].Text != "world" {
		t.Errorf("got %q and %q", words[0].Text, words[1].Text)
	}
}

func TestNoLyricsFails(t *testing.T) {
	const noLyrics = `<score-partwise><part id="P1"><measure number="1">
		<attributes><divisions>1</divisions></attributes>
		<note><duration>1</duration></note>
	</measure></part></score-partwise>`

	doc, err := Parse(strings.NewReader(noLyrics))
	if err != nil {
		t.Fatal(err)
	}
	part := FindPart(doc, "P1")
	_, _, err = CollectEvents(part)
	if err == nil {
		t.Fatal("expected ErrNoLyrics")
	}
}

func TestPartNotFound(t *testing.T) {
	doc, err := Parse(strings.NewReader(scoreOneMeasure))
	if err != nil {
		t.Fatal(err)
	}
	if FindPart(doc, "P2") != nil {
		t.Fatal("expected nil for missing part")
	}
}

func TestChordNoteDoesNotAdvancePosition(t *testing.T) {
	const chordScore = `<score-partwise><part id="P1"><measure number="1">
		<attributes><divisions>1</divisions></attributes>
		<note><duration>1</duration><lyric><text>a</text></lyric></note>
		<note><chord/><duration>1</duration><lyric><text>b</text></lyric></note>
	</measure></part></score-partwise>`

	doc, err := Parse(strings.NewReader(chordScore))
	if err != nil {
		t.Fatal(err)
	}
	part := FindPart(doc, "P1")
	lyrics, _, err := CollectEvents(part)
	if err != nil {
		t.Fatal(err)
	}
	if len(lyrics) != 2 {
		t.Fatalf("expected 2 lyric events, got %d", len(lyrics))
	}
	if lyrics[0].Pos.Cmp(lyrics[1].Pos) != 0 {
		t.Errorf("chord tone lyric should share position with lead note")
	}
}
