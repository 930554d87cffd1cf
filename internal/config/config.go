// Package config handles user settings: the YAML settings file, environment
// overrides, and the in-memory settings cache consumed by the dictation
// session.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Provider identifies a transcription backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGoogle Provider = "google"
)

// DefaultGoogleLanguage is substituted when the Google provider is selected
// and no language code is configured.
const DefaultGoogleLanguage = "en-US"

// Config holds all application settings.
type Config struct {
	Provider       Provider     `yaml:"provider"`
	OpenAIAPIKey   string       `yaml:"openai_api_key"`
	GoogleAPIKey   string       `yaml:"google_api_key"`
	GoogleLanguage string       `yaml:"google_language"`
	InputDevice    string       `yaml:"input_device"` // empty means system default mic
	Hotkey         HotkeyConfig `yaml:"hotkey"`
	Audio          AudioConfig  `yaml:"audio"`
	LogLevel       string       `yaml:"log_level"`
}

// HotkeyConfig holds the global hotkey binding.
type HotkeyConfig struct {
	Keys []string `yaml:"keys"`
	Mode string   `yaml:"mode"` // "toggle" or "hold"
}

// AudioConfig holds audio capture settings.
type AudioConfig struct {
	SampleRate uint32 `yaml:"sample_rate"`
	Channels   uint32 `yaml:"channels"`
}

// envOverrides are secrets and switches that may be supplied via the
// environment instead of the settings file.
type envOverrides struct {
	Provider     string `envconfig:"PROVIDER"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	GoogleAPIKey string `envconfig:"GOOGLE_API_KEY"`
	LogLevel     string `envconfig:"LOG_LEVEL"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hotkey-type")
}

// DefaultConfigPath returns the default settings file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		GoogleLanguage: DefaultGoogleLanguage,
		Hotkey: HotkeyConfig{
			Keys: []string{"ctrl", "shift", "t"},
			Mode: "toggle",
		},
		Audio: AudioConfig{
			SampleRate: 16000,
			Channels:   1,
		},
		LogLevel: "info",
	}
}

// Load reads and parses a YAML settings file. A missing file is not an
// error: defaults are returned so the app can start unconfigured and fail
// later with a clear missing-key message. Environment variables with the
// HOTKEY_TYPE_ prefix override file values (a .env file is honored too).
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading settings file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing settings file: %w", err)
		}
	}

	_ = godotenv.Load()
	var env envOverrides
	if err := envconfig.Process("HOTKEY_TYPE", &env); err != nil {
		return nil, fmt.Errorf("reading environment overrides: %w", err)
	}
	if env.Provider != "" {
		cfg.Provider = Provider(env.Provider)
	}
	if env.OpenAIAPIKey != "" {
		cfg.OpenAIAPIKey = env.OpenAIAPIKey
	}
	if env.GoogleAPIKey != "" {
		cfg.GoogleAPIKey = env.GoogleAPIKey
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}

	return cfg, nil
}

// Save writes the settings file, creating the parent directory if needed.
// Saving is what produces the settings-changed notification observed by the
// file watcher; the session core itself never calls Save.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serializing settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// Key returns the API key configured for the given provider, trimmed.
// An empty result means the provider is not configured.
func (c *Config) Key(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return strings.TrimSpace(c.OpenAIAPIKey)
	case ProviderGoogle:
		return strings.TrimSpace(c.GoogleAPIKey)
	default:
		return ""
	}
}

// Language returns the language code for providers that require one,
// falling back to DefaultGoogleLanguage when unset.
func (c *Config) Language() string {
	lang := strings.TrimSpace(c.GoogleLanguage)
	if lang == "" {
		return DefaultGoogleLanguage
	}
	return lang
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGoogle:
	default:
		return fmt.Errorf("provider must be %q or %q, got %q", ProviderOpenAI, ProviderGoogle, c.Provider)
	}

	if len(c.Hotkey.Keys) == 0 {
		return fmt.Errorf("hotkey.keys must not be empty")
	}

	switch c.Hotkey.Mode {
	case "hold", "toggle":
	default:
		return fmt.Errorf("hotkey.mode must be \"hold\" or \"toggle\", got %q", c.Hotkey.Mode)
	}

	if c.Audio.SampleRate == 0 {
		return fmt.Errorf("audio.sample_rate must be > 0")
	}

	if c.Audio.Channels == 0 {
		return fmt.Errorf("audio.channels must be > 0")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}
