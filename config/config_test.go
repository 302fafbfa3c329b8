// ABOUTME: Tests for configuration load/save functionality
// ABOUTME: Validates TOML parsing and default config fallback behavior

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lrclib-match.toml")

	cfg := BatchConfig{
		InputDir: "/data/input",
		Workers:  4,
		Queue:    5000,
		Exts:     "musicxml,xml",
	}
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.InputDir != cfg.InputDir {
		t.Errorf("InputDir mismatch: got %q, want %q", loaded.InputDir, cfg.InputDir)
	}
	if loaded.Workers != cfg.Workers {
		t.Errorf("Workers mismatch: got %d, want %d", loaded.Workers, cfg.Workers)
	}
	if loaded.Exts != cfg.Exts {
		t.Errorf("Exts mismatch: got %q, want %q", loaded.Exts, cfg.Exts)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}
	if cfg != (BatchConfig{}) {
		t.Errorf("Expected zero-value config, got: %+v", cfg)
	}
}

func TestGetConfigPathFallsBackToHomeDir(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Error("expected a non-empty config path")
	}
	if _, err := os.Stat("./lrclib-match.toml"); err == nil {
		if path != "./lrclib-match.toml" {
			t.Errorf("expected local config path when present, got %q", path)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		want := filepath.Join(home, ".config", "lrclib-match", "config.toml")
		if path != want {
			t.Errorf("expected home config path %q, got %q", want, path)
		}
	}
}
