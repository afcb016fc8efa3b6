package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Claude      ClaudeConfig   `toml:"claude"`
	LLM         LLMConfig      `toml:"llm"`
	Onboarding  OnboardConfig  `toml:"onboarding"`
	Catalogs    CatalogsConfig `toml:"catalogs"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// GeminiConfig contains Google Gemini API settings
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
	RateLimit   string  `toml:"rate_limit"` // Minimum interval between calls, e.g. "1s"
}

// ClaudeConfig contains Anthropic Claude API settings
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
	RateLimit   string  `toml:"rate_limit"`
}

// LLMConfig selects the default provider when a model string carries no prefix
type LLMConfig struct {
	DefaultProvider string `toml:"default_provider"` // "gemini" or "claude"
	Enabled         bool   `toml:"enabled"`          // When false, every LLM call reports unavailable
}

// OnboardConfig contains intake-flow settings. Each outbound LLM call
// carries its own short timeout; on timeout the fail-open/fail-closed
// rules of the validation mode apply instead of an error to the caller.
type OnboardConfig struct {
	AdjudicateTimeout string `toml:"adjudicate_timeout"` // per semantic check, e.g. "8s"
	ComposeTimeout    string `toml:"compose_timeout"`    // per message composition, e.g. "6s"
	ContextFields     int    `toml:"context_fields"`     // free-text fields included in the profile-context snippet
	ContextMaxRunes   int    `toml:"context_max_runes"`  // per-field truncation for the snippet
}

// CatalogsConfig selects where dynamic-catalog snapshots come from
type CatalogsConfig struct {
	Mode           string `toml:"mode"`            // "http" or "files"
	BaseURL        string `toml:"base_url"`        // snapshot endpoint base for http mode
	Dir            string `toml:"dir"`             // directory of *.toml catalog files for files mode
	RequestTimeout string `toml:"request_timeout"` // http fetch timeout, e.g. "10s"
	RateLimit      int    `toml:"rate_limit"`      // http requests per second
}

// NewDefaultConfig returns the built-in defaults. Priority system:
// CLI flags > environment variables > config file(s) > defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8087,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/rogo",
				ResetOnStartup: false,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout"},
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (no fallback)
			Model:       "gemini-3-flash-preview",
			Temperature: 0.4,
			RateLimit:   "1s",
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   1024,
			Temperature: 0.4,
			RateLimit:   "1s",
		},
		LLM: LLMConfig{
			DefaultProvider: "gemini",
			Enabled:         true,
		},
		Onboarding: OnboardConfig{
			AdjudicateTimeout: "8s",
			ComposeTimeout:    "6s",
			ContextFields:     3,
			ContextMaxRunes:   160,
		},
		Catalogs: CatalogsConfig{
			Mode:           "files",
			Dir:            "./catalogs",
			RequestTimeout: "10s",
			RateLimit:      5,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ROGO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("ROGO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ROGO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("ROGO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("ROGO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ROGO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// API keys (env takes precedence over config file for secrets)
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if provider := os.Getenv("ROGO_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = provider
	}

	// Catalog collaborator
	if mode := os.Getenv("ROGO_CATALOGS_MODE"); mode != "" {
		config.Catalogs.Mode = mode
	}
	if baseURL := os.Getenv("ROGO_CATALOGS_BASE_URL"); baseURL != "" {
		config.Catalogs.BaseURL = baseURL
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// AdjudicateTimeout parses the configured semantic-check timeout.
func (c *OnboardConfig) GetAdjudicateTimeout() time.Duration {
	return parseDurationOr(c.AdjudicateTimeout, 8*time.Second)
}

// GetComposeTimeout parses the configured composition timeout.
func (c *OnboardConfig) GetComposeTimeout() time.Duration {
	return parseDurationOr(c.ComposeTimeout, 6*time.Second)
}

// GetRequestTimeout parses the configured catalog fetch timeout.
func (c *CatalogsConfig) GetRequestTimeout() time.Duration {
	return parseDurationOr(c.RequestTimeout, 10*time.Second)
}

// GetRateInterval parses a provider's minimum call interval.
func RateInterval(raw string, fallback time.Duration) time.Duration {
	return parseDurationOr(raw, fallback)
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
