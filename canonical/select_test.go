package canonical

import "testing"

func TestSelectCanonicalPrefersStudioOverLive(t *testing.T) {
	tracks := []Track{
		{ID: 1, Title: "Everlong", Artist: "Foo Fighters", Album: "Live in Berlin", DurationSec: 400},
		{ID: 2, Title: "Everlong", Artist: "Foo Fighters", Album: "Studio LP", DurationSec: 250},
	}

	scored, ok := SelectCanonical(tracks)
	if !ok {
		t.Fatal("expected a canonical selection")
	}
	if scored.Track.ID != 2 {
		t.Errorf("expected studio track (id 2) to win, got id %d", scored.Track.ID)
	}
}

func TestSelectCanonicalEmptyGroup(t *testing.T) {
	_, ok := SelectCanonical(nil)
	if ok {
		t.Error("expected no selection for empty group")
	}
}

func TestSelectCanonicalTieBreaksOnLowestID(t *testing.T) {
	tracks := []Track{
		{ID: 10, Title: "Song", Artist: "Artist", Album: "Studio LP", DurationSec: 200},
		{ID: 2, Title: "Song", Artist: "Artist", Album: "Studio LP", DurationSec: 200},
	}
	scored, ok := SelectCanonical(tracks)
	if !ok {
		t.Fatal("expected a selection")
	}
	if scored.Track.ID != 2 {
		t.Errorf("expected lowest id (2) to win tie, got %d", scored.Track.ID)
	}
}

func TestGroupKeysByNormalizedTitleArtist(t *testing.T) {
	tracks := []Track{
		{ID: 1, Title: "Everlong (Remastered 2005)", Artist: "Foo Fighters"},
		{ID: 2, Title: "Everlong", Artist: "Foo Fighters"},
	}
	groups := Group(tracks)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
}

func TestSelectAllIsDeterministicAcrossRuns(t *testing.T) {
	groups := map[NormKey][]Track{
		{TitleNorm: "a", ArtistNorm: "x"}: {
			{ID: 1, Title: "a", Artist: "x", Album: "Live Tour", DurationSec: 200},
			{ID: 2, Title: "a", Artist: "x", Album: "Studio LP", DurationSec: 200},
		},
		{TitleNorm: "b", ArtistNorm: "y"}: {
			{ID: 3, Title: "b", Artist: "y", Album: "Studio LP", DurationSec: 180},
		},
	}

	first := resultsByID(SelectAll(groups))
	for i := 0; i < 5; i++ {
		next := resultsByID(SelectAll(groups))
		if len(next) != len(first) {
			t.Fatalf("result count changed across runs: %d vs %d", len(first), len(next))
		}
		for id, quality := range first {
			if next[id] != quality {
				t.Errorf("track %d quality changed across runs: %d vs %d", id, quality, next[id])
			}
		}
	}
}

func resultsByID(scored []ScoredTrack) map[int64]int32 {
	out := make(map[int64]int32, len(scored))
	for _, s := range scored {
		out[s.Track.ID] = s.Quality
	}
	return out
}
