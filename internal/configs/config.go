package configs

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/coffer/internal/utils"
)

type Config struct {
	Store  string     `toml:"store"`
	Backup bool       `toml:"backup"`
	Debug  bool       `toml:"debug"`
	Sync   SyncConfig `toml:"sync"`
}

// SyncConfig holds shell commands run around every store access. Download
// runs before the store is read, Upload after it is written.
type SyncConfig struct {
	Enabled  bool   `toml:"enabled"`
	Download string `toml:"download"`
	Upload   string `toml:"upload"`
}

// DefaultConfig returns the configuration written on first use.
func DefaultConfig() *Config {
	return &Config{
		Store:  UserCofferSettings.StorePath,
		Backup: true,
	}
}

// LoadConfig loads the configuration file, falling back to defaults when it
// does not exist.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(UserCofferSettings.ConfigPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(UserCofferSettings.ConfigPath, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Store == "" {
		config.Store = UserCofferSettings.StorePath
	}
	store, err := utils.ExpandHome(config.Store)
	if err != nil {
		return nil, err
	}
	config.Store = store

	return config, nil
}

// SaveConfig writes the configuration file.
func SaveConfig(config *Config) error {
	if err := SaveTOML(UserCofferSettings.ConfigPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// EnsureConfig creates the coffer directory and a default configuration file
// if either is missing, then loads it.
func EnsureConfig() (*Config, error) {
	if err := os.MkdirAll(UserCofferSettings.DefaultDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", UserCofferSettings.DefaultDir, err)
	}

	if !utils.FileExists(UserCofferSettings.ConfigPath) {
		if err := SaveConfig(DefaultConfig()); err != nil {
			return nil, err
		}
	}

	return LoadConfig()
}
