// Package daemon manages the Coinkeep engine lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all engine configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	AppLock   AppLockConfig   `toml:"applock"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// APIConfig controls the localhost control API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// AppLockConfig controls the lock subsystem's process-level behavior.
// The user-facing settings record lives in the database, not here.
type AppLockConfig struct {
	// ColdStartLock locks before first serve when a credential is
	// configured. The guard never auto-locks on construction; this gate
	// belongs to the hosting process.
	ColdStartLock bool `toml:"cold_start_lock"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 7833,
		},
		AppLock: AppLockConfig{
			ColdStartLock: true,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from ~/.coinkeep/config.toml, falling back to
// defaults when no file exists.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(coinkeepHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet, use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.coinkeep/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(coinkeepHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// coinkeepHome returns the Coinkeep data directory.
func coinkeepHome() string {
	if env := os.Getenv("COINKEEP_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".coinkeep")
}

// Home is exported for use by other packages.
func Home() string {
	return coinkeepHome()
}
