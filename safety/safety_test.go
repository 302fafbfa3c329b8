package safety

import (
	"strings"
	"testing"
)

func TestValidOutputEnriched(t *testing.T) {
	err := ValidateOutputPath("/tmp/lrclib-enriched.sqlite3", "enriched", []string{"/data/lrclib-dump.sqlite3"})
	if err != nil {
		t.Errorf("expected ok, got %v", err)
	}
}

func TestValidOutputNormalized(t *testing.T) {
	err := ValidateOutputPath("/tmp/spotify_normalized.sqlite3", "normalized", []string{"/data/spotify_clean.sqlite3"})
	if err != nil {
		t.Errorf("expected ok, got %v", err)
	}
}

func TestMissingPattern(t *testing.T) {
	err := ValidateOutputPath("/tmp/output.sqlite3", "enriched", []string{"/data/source.sqlite3"})
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "must contain \"enriched\""; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err.Error(), want)
	}
}

func TestOutputEqualsSource(t *testing.T) {
	path := "/data/lrclib-enriched.sqlite3"
	err := ValidateOutputPath(path, "enriched", []string{path})
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "cannot be the same as source"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err.Error(), want)
	}
}

func TestDangerousPatternBlocked(t *testing.T) {
	err := ValidateOutputPath("/tmp/spotify_clean.sqlite3", "normalized", []string{"/data/other.sqlite3"})
	if err == nil {
		t.Fatal("expected error")
	}
}
