// Package config loads client configuration: a JSON file under the dotdir
// with environment variables taking precedence. A .env file in the working
// directory is honored for development setups.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds user-tunable client settings.
type Config struct {
	APIBaseURL     string        `json:"api_url" env:"DISHA_API_URL"`
	Theme          string        `json:"theme" env:"DISHA_THEME"` // "light" or "dark"
	RequestTimeout time.Duration `json:"request_timeout" env:"DISHA_TIMEOUT"`
	Debug          bool          `json:"debug" env:"DISHA_DEBUG"`
}

// DefaultConfig returns the defaults applied before file and env layers.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:     "http://localhost:8000",
		Theme:          "light",
		RequestTimeout: 90 * time.Second,
	}
}

// Dir returns the dotdir holding config, session and logs.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".disha"), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration in default -> file -> env order.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := File()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	// .env is optional; absence is not an error.
	_ = godotenv.Load()
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path, err := File()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
