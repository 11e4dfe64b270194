// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/lexchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete lexchat configuration.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	// Backend service configuration
	Backend BackendConfig `toml:"backend" json:"backend" yaml:"backend"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui" yaml:"ui"`

	// Logging configuration
	Log LogConfig `toml:"log" json:"log" yaml:"log"`
}

// BackendConfig describes the answer service.
type BackendConfig struct {
	// URL is the service base URL, e.g. http://localhost:8000
	URL string `toml:"url" json:"url" yaml:"url"`
	// AgentType is sent as agent_type with every chat request
	AgentType string `toml:"agent_type" json:"agent_type" yaml:"agent_type"`
	// TimeoutSecs bounds a single request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
	// MaxResponseMB caps response bodies
	MaxResponseMB int `toml:"max_response_mb" json:"max_response_mb" yaml:"max_response_mb"`
	// RequestsPerSecond limits outgoing requests; 0 disables the limit
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second" yaml:"requests_per_second"`
	// SendConversationID includes the conversation ID in chat requests
	SendConversationID bool `toml:"send_conversation_id" json:"send_conversation_id" yaml:"send_conversation_id"`
}

// Timeout returns the request timeout as a duration.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// MaxResponseBytes returns the response cap in bytes.
func (b BackendConfig) MaxResponseBytes() int64 {
	return int64(b.MaxResponseMB) * 1024 * 1024
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
	// ShowTimestamps prints the time next to each turn
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps" yaml:"show_timestamps"`
	// ShowBadges renders the citation badge row under answers
	ShowBadges bool `toml:"show_badges" json:"show_badges" yaml:"show_badges"`
	// Hyperlinks emits OSC 8 links for citation URLs
	Hyperlinks bool `toml:"hyperlinks" json:"hyperlinks" yaml:"hyperlinks"`
	// Markdown renders answers of the ask command through glamour
	Markdown bool `toml:"markdown" json:"markdown" yaml:"markdown"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level" json:"level" yaml:"level"`
	// Path is the log file; empty means <config dir>/lexchat.log
	Path string `toml:"path" json:"path" yaml:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			URL:                "http://localhost:8000",
			AgentType:          "consultant",
			TimeoutSecs:        60,
			MaxResponseMB:      10,
			RequestsPerSecond:  0,
			SendConversationID: false,
		},

		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: false,
			ShowBadges:     true,
			Hyperlinks:     true,
			Markdown:       true,
		},

		Log: LogConfig{
			Level: "info",
			Path:  "",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the lexchat configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv("LEXCHAT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".lexchat"), nil
}

func configFile(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) { return configFile("config.toml") }

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) { return configFile("config.json") }

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) { return configFile("config.yaml") }

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ResolvePath returns the first config file that exists, in precedence
// order. If none exists it returns the TOML path.
func ResolvePath() (string, error) {
	var first string
	for _, fn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON, ConfigPathYAML} {
		path, err := fn()
		if err != nil {
			return "", err
		}
		if first == "" {
			first = path
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return first, nil
}

// LogPath returns the effective log file path.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	return configFile("lexchat.log")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// replacing variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from the first config file found in the config
// directory, falling back to defaults. ./.env is read first and
// environment overrides are applied last.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	path, err := ResolvePath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return LoadFromPath(path)
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadYAML loads configuration from a YAML file.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. The format is chosen by extension; anything unknown is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults. Boolean fields
// cannot be told apart from an explicit false and are left alone.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// Backend
	if cfg.Backend.URL == "" {
		cfg.Backend.URL = defaults.Backend.URL
	}
	if cfg.Backend.AgentType == "" {
		cfg.Backend.AgentType = defaults.Backend.AgentType
	}
	if cfg.Backend.TimeoutSecs == 0 {
		cfg.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if cfg.Backend.MaxResponseMB == 0 {
		cfg.Backend.MaxResponseMB = defaults.Backend.MaxResponseMB
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to path in the format its extension names.
// Anything unknown is TOML, matching LoadFromPath.
func Save(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(cfg, path)
	case ".yaml", ".yml":
		return SaveYAML(cfg, path)
	default:
		return SaveTOML(cfg, path)
	}
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# lexchat configuration file\n")
	buf.WriteString("# Environment variables LEXCHAT_* override these values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeConfig(path, buf.Bytes())
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeConfig(path, data)
}

// SaveYAML saves the configuration to a YAML file.
func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeConfig(path, data)
}

func writeConfig(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = map[string]bool{"dark": true, "light": true, "auto": true}
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Backend
	if u, err := url.Parse(c.Backend.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL '%s', must be an http or https URL with a host", c.Backend.URL),
		})
	}
	if strings.TrimSpace(c.Backend.AgentType) == "" {
		errs = append(errs, ValidationError{Field: "backend.agent_type", Message: "must not be empty"})
	}
	if c.Backend.TimeoutSecs < 1 || c.Backend.TimeoutSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: fmt.Sprintf("value %d out of range, must be between 1 and 3600", c.Backend.TimeoutSecs),
		})
	}
	if c.Backend.MaxResponseMB < 1 || c.Backend.MaxResponseMB > 100 {
		errs = append(errs, ValidationError{
			Field:   "backend.max_response_mb",
			Message: fmt.Sprintf("value %d out of range, must be between 1 and 100", c.Backend.MaxResponseMB),
		})
	}
	if c.Backend.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "backend.requests_per_second", Message: "must not be negative"})
	}

	// UI
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// Log
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - LEXCHAT_BACKEND_URL: overrides backend.url
//   - LEXCHAT_AGENT_TYPE: overrides backend.agent_type
//   - LEXCHAT_TIMEOUT: overrides backend.timeout_secs (seconds or a duration like "90s")
//   - LEXCHAT_LOG_LEVEL: overrides log.level
//   - LEXCHAT_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LEXCHAT_BACKEND_URL"); v != "" {
		c.Backend.URL = strings.TrimSuffix(v, "/")
	}
	if v := os.Getenv("LEXCHAT_AGENT_TYPE"); v != "" {
		c.Backend.AgentType = v
	}
	if v := os.Getenv("LEXCHAT_TIMEOUT"); v != "" {
		if secs, ok := parseSeconds(v); ok {
			c.Backend.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("LEXCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LEXCHAT_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
}

func parseSeconds(v string) (int, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	if d, err := time.ParseDuration(v); err == nil {
		return int(d.Round(time.Second) / time.Second), true
	}
	return 0, false
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// String returns the configuration as TOML for display.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
