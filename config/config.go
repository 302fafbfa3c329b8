// ABOUTME: Configuration management for batch orchestrator parameters
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// BatchConfig holds the tunable parameters for one `batch` command run. Any
// field left at its zero value is filled in by RunOptions.resolvePaths with
// the corresponding CLI-flag default.
type BatchConfig struct {
	InputDir   string `toml:"input_dir"`
	OutputDir  string `toml:"output_dir"`
	BaseLRCDir string `toml:"base_lrc_dir"`
	DBPath     string `toml:"db_path"`
	Workers    int    `toml:"workers"`
	Queue      int    `toml:"queue"`
	Exts       string `toml:"exts"`
}

// GetConfigPath returns the default config file path: first tries the
// current directory, then falls back to ~/.config/lrclib-match/config.toml.
func GetConfigPath() string {
	if _, err := os.Stat("./lrclib-match.toml"); err == nil {
		return "./lrclib-match.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./lrclib-match.toml"
	}

	return filepath.Join(home, ".config", "lrclib-match", "config.toml")
}

// LoadConfig loads a BatchConfig from a TOML file. If the file doesn't
// exist, it returns the zero-value config (all defaults) without error.
func LoadConfig(path string) (BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return BatchConfig{}, nil
		}
		return BatchConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg BatchConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return BatchConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves a BatchConfig to a TOML file, creating its parent
// directory if needed.
func SaveConfig(path string, cfg BatchConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
