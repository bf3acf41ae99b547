// Package config provides configuration loading and validation for quartet.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/gerunddev/quartet/internal/log"
)

// Standard config file location.
const defaultConfigPath = "~/.config/quartet/config.json"

// Environment variables read by Load.
const (
	EnvConfigPath  = "QUARTET_CONFIG"
	EnvAPIKey      = "OPENAI_API_KEY"
	EnvBaseURL     = "OPENAI_BASE_URL"
	EnvModel       = "OPENAI_MODEL"
	EnvLogLevel    = "QUARTET_LOG_LEVEL"
	EnvProfilePath = "QUARTET_PROFILE"
	EnvHistoryPath = "QUARTET_HISTORY_PATH"
)

// Defaults for the chat-completions backend.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

// Config holds all quartet configuration settings.
type Config struct {
	ProfilePath string        `json:"profile_path"`
	LogLevel    string        `json:"log_level"`
	LLM         LLMConfig     `json:"llm"`
	History     HistoryConfig `json:"history"`
	Agents      AgentConfig   `json:"agents"`

	// expandedPaths tracks whether ExpandPaths has been called.
	expandedPaths bool
}

// LLMConfig selects and configures the model backend.
// An empty APIKey selects the offline fallback.
type LLMConfig struct {
	APIKey  string `json:"-"` // Only ever read from the environment
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

// HistoryConfig controls persistence of completed runs.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// AgentConfig holds paths to files overriding each agent's mission.
type AgentConfig struct {
	Planner  string `json:"planner"`
	Coder    string `json:"coder"`
	Reviewer string `json:"reviewer"`
	Coach    string `json:"coach"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ProfilePath: "profile.json",
		LogLevel:    "info",
		LLM: LLMConfig{
			BaseURL: DefaultBaseURL,
			Model:   DefaultModel,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "~/.local/share/quartet/history.db",
		},
	}
}

// Load reads a .env file from the working directory (if any), then the
// config file from $QUARTET_CONFIG or ~/.config/quartet/config.json,
// falling back to defaults if the file doesn't exist.
// Environment variables override file values.
func Load() (*Config, error) {
	loadDotEnv(".env")

	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		configPath = defaultConfigPath
	}
	configPath, err := expandPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}
	return LoadFromPath(configPath)
}

// loadDotEnv loads KEY=VALUE pairs from path without overriding variables
// already present in the environment.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("could not load env file", "path", path, "error", err)
	}
}

// LoadFromPath reads config from a specific path.
// If the file doesn't exist, returns default config (with environment overrides).
// If the file exists but is invalid, returns an error.
func LoadFromPath(path string) (*Config, error) {
	// Start with default config.
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No config file - defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		var fileCfg fileConfig
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		mergeConfig(cfg, &fileCfg)
	}

	applyEnv(cfg, os.Getenv)

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// fileConfig is used for parsing JSON with pointer fields to detect what was set.
type fileConfig struct {
	ProfilePath *string            `json:"profile_path"`
	LogLevel    *string            `json:"log_level"`
	LLM         *fileLLMConfig     `json:"llm"`
	History     *fileHistoryConfig `json:"history"`
	Agents      *fileAgentConfig   `json:"agents"`
}

type fileLLMConfig struct {
	BaseURL *string `json:"base_url"`
	Model   *string `json:"model"`
}

type fileHistoryConfig struct {
	Enabled *bool   `json:"enabled"`
	Path    *string `json:"path"`
}

type fileAgentConfig struct {
	Planner  *string `json:"planner"`
	Coder    *string `json:"coder"`
	Reviewer *string `json:"reviewer"`
	Coach    *string `json:"coach"`
}

// mergeConfig merges file config values into the default config.
// Only non-nil values from the file config are applied.
func mergeConfig(cfg *Config, fileCfg *fileConfig) {
	if fileCfg.ProfilePath != nil {
		cfg.ProfilePath = *fileCfg.ProfilePath
	}
	if fileCfg.LogLevel != nil {
		cfg.LogLevel = *fileCfg.LogLevel
	}

	if fileCfg.LLM != nil {
		if fileCfg.LLM.BaseURL != nil {
			cfg.LLM.BaseURL = *fileCfg.LLM.BaseURL
		}
		if fileCfg.LLM.Model != nil {
			cfg.LLM.Model = *fileCfg.LLM.Model
		}
	}

	if fileCfg.History != nil {
		if fileCfg.History.Enabled != nil {
			cfg.History.Enabled = *fileCfg.History.Enabled
		}
		if fileCfg.History.Path != nil {
			cfg.History.Path = *fileCfg.History.Path
		}
	}

	if fileCfg.Agents != nil {
		if fileCfg.Agents.Planner != nil {
			cfg.Agents.Planner = *fileCfg.Agents.Planner
		}
		if fileCfg.Agents.Coder != nil {
			cfg.Agents.Coder = *fileCfg.Agents.Coder
		}
		if fileCfg.Agents.Reviewer != nil {
			cfg.Agents.Reviewer = *fileCfg.Agents.Reviewer
		}
		if fileCfg.Agents.Coach != nil {
			cfg.Agents.Coach = *fileCfg.Agents.Coach
		}
	}
}

// applyEnv overrides config values with non-empty environment variables.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := getenv(EnvBaseURL); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := getenv(EnvModel); v != "" {
		cfg.LLM.Model = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvProfilePath); v != "" {
		cfg.ProfilePath = v
	}
	if v := getenv(EnvHistoryPath); v != "" {
		cfg.History.Path = v
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ProfilePath) == "" {
		errs = append(errs, errors.New("profile_path must be non-empty"))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	// Endpoint settings only matter once a live backend is selected.
	if c.HasAPIKey() {
		if c.LLM.BaseURL == "" {
			errs = append(errs, errors.New("llm.base_url must be non-empty"))
		} else if u, err := url.Parse(c.LLM.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("llm.base_url must be an http(s) URL: %q", c.LLM.BaseURL))
		}

		if c.LLM.Model == "" {
			errs = append(errs, errors.New("llm.model must be non-empty"))
		}
	}

	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, errors.New("history.path must be non-empty when history is enabled"))
	}

	// Validate agent mission paths if set.
	for _, a := range []struct{ name, path string }{
		{"planner", c.Agents.Planner},
		{"coder", c.Agents.Coder},
		{"reviewer", c.Agents.Reviewer},
		{"coach", c.Agents.Coach},
	} {
		if a.path == "" {
			continue
		}
		if _, err := os.Stat(a.path); os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("agents.%s file does not exist: %s", a.name, a.path))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ExpandPaths expands ~ to home directory in all path fields.
func (c *Config) ExpandPaths() error {
	if c.expandedPaths {
		return nil
	}

	fields := []struct {
		name string
		ptr  *string
	}{
		{"profile_path", &c.ProfilePath},
		{"history.path", &c.History.Path},
		{"agents.planner", &c.Agents.Planner},
		{"agents.coder", &c.Agents.Coder},
		{"agents.reviewer", &c.Agents.Reviewer},
		{"agents.coach", &c.Agents.Coach},
	}
	for _, f := range fields {
		expanded, err := expandPath(*f.ptr)
		if err != nil {
			return fmt.Errorf("failed to expand %s: %w", f.name, err)
		}
		*f.ptr = expanded
	}

	c.expandedPaths = true
	return nil
}

// HasAPIKey reports whether a live backend credential is configured.
func (c *Config) HasAPIKey() bool {
	return c.LLM.APIKey != ""
}

// GetAgentMission returns the mission override for a role.
// If a custom path is set, reads from file. Otherwise returns empty string,
// signaling that the caller should use the built-in mission.
func (c *Config) GetAgentMission(role string) (string, error) {
	var customPath string

	switch role {
	case "planner":
		customPath = c.Agents.Planner
	case "coder":
		customPath = c.Agents.Coder
	case "reviewer":
		customPath = c.Agents.Reviewer
	case "coach":
		customPath = c.Agents.Coach
	default:
		return "", fmt.Errorf("unknown agent role: %s", role)
	}

	if customPath == "" {
		return "", nil
	}

	data, err := os.ReadFile(customPath)
	if err != nil {
		return "", fmt.Errorf("failed to read mission file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	// Expand ~
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	// Clean the path.
	return filepath.Clean(path), nil
}
