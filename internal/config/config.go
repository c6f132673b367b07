// Package config loads and persists the CLI's settings: the API base URL,
// the auto-sync switch, and the bookmarks file location. Secrets are not
// stored here; the token lives in the keyring (internal/session).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the hosted Fuze deployment.
const DefaultAPIURL = "https://fuze-backend.onrender.com"

// Env var overrides, mainly for CI and scripted use.
const (
	EnvAPIURL = "FUZE_API_URL"
	EnvToken  = "FUZE_TOKEN"
)

// Config is the persisted settings file.
type Config struct {
	APIURL        string `json:"api_url"`
	AutoSync      bool   `json:"auto_sync"`
	BookmarksPath string `json:"bookmarks_path,omitempty"`
}

// Dir returns the settings directory, creating nothing.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, "fuze"), nil
}

// Path returns the settings file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// TokenFilePath returns the keyring fallback slot for the token. This file
// doubles as the trusted slot the session watcher observes.
func TokenFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "token"), nil
}

// Load reads the settings file, then applies env overrides. A missing file
// yields the defaults. A .env in the working directory is honored first.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{APIURL: DefaultAPIURL}
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	raw, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read settings: %w", err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	return cfg, nil
}

// Save writes the settings file, creating the directory on first use.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// TokenOverride returns the env-provided token, if any. It wins over the
// keyring so scripted runs never touch stored credentials.
func TokenOverride() string {
	return os.Getenv(EnvToken)
}
