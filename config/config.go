// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName        = "voicetoclipboard"
	configFileName = "config.json"
)

// CloudFallback configures the optional OpenAI Whisper API provider. It is
// only used when an API key is present and Provider selects it.
type CloudFallback struct {
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model,omitempty"`
}

// History configures the transcription history store.
type History struct {
	Enabled bool `json:"enabled"`
	Limit   int  `json:"limit"`    // Entries shown in the tray menu
	TTLDays int  `json:"ttl_days"` // Entries expire after this many days
}

// Config represents the application configuration.
type Config struct {
	// DefaultModel is the catalog display name used at startup.
	DefaultModel string `json:"default_model"`

	// EnginePath and ModelsDir override autodiscovery when set.
	EnginePath string `json:"engine_path,omitempty"`
	ModelsDir  string `json:"models_dir,omitempty"`

	// Language forces a source language; empty means auto-detect.
	Language string `json:"language,omitempty"`

	// Hotkey lists the push-to-talk modifiers, all required.
	Hotkey []string `json:"hotkey"`

	// Provider selects the STT provider; "whisper-local" unless overridden.
	Provider string `json:"provider,omitempty"`

	CloudFallback CloudFallback `json:"cloud_fallback,omitempty"`
	History       History       `json:"history"`
}

func defaultConfig() *Config {
	return &Config{
		DefaultModel: "Base (Fast)",
		Hotkey:       []string{"left_ctrl", "left_alt"},
		Provider:     "whisper-local",
		History: History{
			Enabled: true,
			Limit:   10,
			TTLDays: 30,
		},
	}
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// Load loads configuration from the config file.
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Empty hotkey would make recording unreachable.
	if len(cfg.Hotkey) == 0 {
		cfg.Hotkey = defaultConfig().Hotkey
	}
	return cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.saveTo(path)
}

func (c *Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
