// Package config loads the assistant configuration: YAML file first,
// environment overrides second, built-in defaults underneath.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Chiyang001/ZhiLing-AI/internal/match"
)

// Config is the root configuration.
type Config struct {
	// Ollama is the model backend.
	Ollama OllamaConfig `yaml:"ollama"`

	// Match holds the fuzzy-resolution thresholds.
	Match match.Config `yaml:"match"`

	// History controls conversation trimming.
	History HistoryConfig `yaml:"history"`

	// Index controls the shortcut index cache.
	Index IndexConfig `yaml:"index"`

	// Store is the transcript database.
	Store StoreConfig `yaml:"store"`

	// Logging configures the structured log output.
	Logging LoggingConfig `yaml:"logging"`
}

// OllamaConfig selects the model backend.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// HistoryConfig bounds the in-memory conversation.
type HistoryConfig struct {
	// MaxMessages caps the history length; trimming drops the oldest
	// complete user/assistant pairs.
	MaxMessages int `yaml:"max_messages"`
}

// IndexConfig tunes the shortcut index cache.
type IndexConfig struct {
	// CacheTTL is a duration string ("30s", "2m"). Empty disables the
	// cache so every lookup rescans.
	CacheTTL string `yaml:"cache_ttl"`
}

// TTL parses CacheTTL, returning zero for empty or invalid values.
func (c IndexConfig) TTL() time.Duration {
	if c.CacheTTL == "" {
		return 0
	}
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

// StoreConfig locates the transcript database.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// File receives the log output; empty discards it (the chat UI owns
	// stdout).
	File string `yaml:"file"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
		},
		Match: match.DefaultConfig(),
		History: HistoryConfig{
			MaxMessages: 20,
		},
		Index: IndexConfig{
			CacheTTL: "30s",
		},
		Store: StoreConfig{
			DatabasePath: filepath.Join(baseDir(), "history.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(baseDir(), "zhiling.log"),
		},
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zhiling"
	}
	return filepath.Join(home, ".zhiling")
}

// Load reads the YAML file at path, falling back to defaults when the
// file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.Ollama.BaseURL = host
	}
	if model := os.Getenv("ZHILING_MODEL"); model != "" {
		c.Ollama.Model = model
	}
}
