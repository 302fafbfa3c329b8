package normalize

import "testing"

func TestTitleStripsRemaster(t *testing.T) {
	got := Title("Come Together - Remastered 2009")
	if got != "come together" {
		t.Errorf("got %q", got)
	}
}

func TestTitleStripsBracketedLive(t *testing.T) {
	got := Title("Hey Jude (Live at Shea Stadium)")
	if got != "hey jude" {
		t.Errorf("got %q", got)
	}
}

func TestTitleStripsFeat(t *testing.T) {
	got := Title("No Role Modelz (feat. Someone Else)")
	if got != "no role modelz" {
		t.Errorf("got %q", got)
	}
}

func TestTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Come Together - Remastered 2009",
		"Hey Jude (Live at Shea Stadium)",
		"Plain Title",
		"",
		"   ",
		"(Deluxe Edition)",
	}
	for _, s := range inputs {
		once := Title(s)
		twice := Title(once)
		if once != twice {
			t.Errorf("Title(%q) not idempotent: %q vs %q", s, once, twice)
		}
	}
}

func TestTitleNeverEmptyFromNonEmpty(t *testing.T) {
	got := Title("(Deluxe Edition)")
	if got == "" {
		t.Errorf("expected non-empty fallback, got empty string")
	}
}

func TestArtistSplitsOnFeat(t *testing.T) {
	got := Artist("Jay-Z feat. Kanye West")
	if got != "jay-z" {
		t.Errorf("got %q", got)
	}
}

func TestArtistStripsEnsembleSuffix(t *testing.T) {
	got := Artist("Count Basie Orchestra")
	if got != "count basie" {
		t.Errorf("got %q", got)
	}
}

func TestTitleStripsDiacritics(t *testing.T) {
	got := Title("Café")
	if got != "cafe" {
		t.Errorf("got %q", got)
	}
}

func TestArtistStripsDiacritics(t *testing.T) {
	got := Artist("Beyoncé")
	if got != "beyonce" {
		t.Errorf("got %q", got)
	}
}

func TestArtistTransliteratesCyrillic(t *testing.T) {
	got := Artist("ДДТ")
	if got != "ddt" {
		t.Errorf("got %q", got)
	}
}

func TestArtistIdempotent(t *testing.T) {
	inputs := []string{"Jay-Z feat. Kanye West", "ДДТ", "Count Basie Orchestra", ""}
	for _, s := range inputs {
		once := Artist(s)
		twice := Artist(once)
		if once != twice {
			t.Errorf("Artist(%q) not idempotent: %q vs %q", s, once, twice)
		}
	}
}
