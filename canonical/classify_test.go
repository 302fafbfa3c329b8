package canonical

import "testing"

func TestClassifyAlbumLive(t *testing.T) {
	if ClassifyAlbum("Live in Berlin") != AlbumLive {
		t.Error("expected AlbumLive")
	}
}

func TestClassifyAlbumStudioDefault(t *testing.T) {
	if ClassifyAlbum("Studio LP") != AlbumStudio {
		t.Error("expected AlbumStudio")
	}
	if ClassifyAlbum("") != AlbumStudio {
		t.Error("expected AlbumStudio for empty album")
	}
}

func TestClassifyAlbumCompilation(t *testing.T) {
	if ClassifyAlbum("Greatest Hits") != AlbumCompilation {
		t.Error("expected AlbumCompilation")
	}
}

func TestIsGarbageAlbum(t *testing.T) {
	if !IsGarbageAlbum("Karaoke Hits") {
		t.Error("expected garbage album")
	}
	if IsGarbageAlbum("Studio LP") {
		t.Error("expected not garbage")
	}
}

func TestShouldSkipTitlePaused(t *testing.T) {
	if !ShouldSkipTitle("Everlong (Paused)") {
		t.Error("expected skip")
	}
	if ShouldSkipTitle("Everlong") {
		t.Error("expected no skip")
	}
}

func TestComputeQualityScorePenalizesLiveAlbum(t *testing.T) {
	studio := Track{Title: "Everlong", Artist: "Foo Fighters", Album: "The Colour and the Shape", DurationSec: 250}
	live := Track{Title: "Everlong", Artist: "Foo Fighters", Album: "Live in Berlin", DurationSec: 250}

	studioScore := ComputeQualityScore(studio, 250, true)
	liveScore := ComputeQualityScore(live, 250, true)

	if studioScore <= liveScore {
		t.Errorf("expected studio (%d) to outscore live (%d)", studioScore, liveScore)
	}
}

func TestComputeQualityScorePenalizesArtistInTitle(t *testing.T) {
	clean := Track{Title: "Everlong", Artist: "Foo Fighters", DurationSec: 250}
	dirty := Track{Title: "Foo Fighters - Everlong", Artist: "Foo Fighters", DurationSec: 250}

	if ComputeQualityScore(clean, 250, true) <= ComputeQualityScore(dirty, 250, true) {
		t.Error("expected title-embeds-artist to be penalized")
	}
}
