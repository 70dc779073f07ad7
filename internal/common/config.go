package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/magstudio/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment  string             `toml:"environment"` // "development" or "production"
	Server       ServerConfig       `toml:"server"`
	Storage      StorageConfig      `toml:"storage"`
	Logging      LoggingConfig      `toml:"logging"`
	Gemini       GeminiConfig       `toml:"gemini"`
	Claude       ClaudeConfig       `toml:"claude"`
	LLM          LLMConfig          `toml:"llm"`
	Studio       StudioConfig       `toml:"studio"`
	Sources      SourcesConfig      `toml:"sources"`
	Interactions InteractionsConfig `toml:"interactions"`
	WebSocket    WebSocketConfig    `toml:"websocket"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Type   string       `toml:"type"` // only "badger" is supported
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// GeminiConfig contains Google Gemini API configuration for content and speech generation
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`      // Google Gemini API key
	Model       string  `toml:"model"`        // Default content model (default: "gemini-3-pro-preview")
	FastModel   string  `toml:"fast_model"`   // Model for lightweight profiles such as curation (default: "gemini-3-flash-preview")
	SpeechModel string  `toml:"speech_model"` // TTS model (default: "gemini-2.5-flash-preview-tts")
	Timeout     string  `toml:"timeout"`      // Operation timeout as duration string (default: "5m")
	RateLimit   string  `toml:"rate_limit"`   // Minimum interval between outbound calls (default: "1s")
	Temperature float32 `toml:"temperature"`  // Completion temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration, used when a profile model is claude-*
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains provider selection and the transport retry policy
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
	MaxRetries      int         `toml:"max_retries"`      // Transient transport retries; 0 = fail fast (default: 0)
	RetryBackoff    string      `toml:"retry_backoff"`    // Base backoff before jitter (default: "2s")
}

// StudioConfig controls the generation pipeline
type StudioConfig struct {
	TemplatesDir  string            `toml:"templates_dir"`  // Directory with <profile>.toml prompt overrides
	ProfileModels map[string]string `toml:"profile_models"` // Per-profile model override, e.g. blog = "claude-sonnet-4-20250514"
	Seed          int64             `toml:"seed"`           // Seed for cosmetic render tokens; 0 = time based
}

// SourcesConfig controls optional excerpt fetching for web sources
type SourcesConfig struct {
	FetchExcerpts  bool   `toml:"fetch_excerpts"`  // Download web sources and add markdown excerpts to the prompt
	ExcerptChars   int    `toml:"excerpt_chars"`   // Max characters per excerpt
	MaxBodyBytes   int64  `toml:"max_body_bytes"`  // Bytes read from each source before parsing (default: 2 MiB)
	RequestTimeout string `toml:"request_timeout"` // HTTP timeout per source (default: "20s")
	UserAgent      string `toml:"user_agent"`
}

// InteractionsConfig controls the sync webhook relay
type InteractionsConfig struct {
	RequestTimeout string `toml:"request_timeout"` // Webhook POST timeout (default: "10s")
}

// WebSocketConfig contains configuration for generation event streaming
type WebSocketConfig struct {
	// Minimum interval between interaction_relayed broadcasts. Empty disables throttling.
	ThrottleInterval string `toml:"throttle_interval"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-3-pro-preview",
			FastModel:   "gemini-3-flash-preview",
			SpeechModel: "gemini-2.5-flash-preview-tts",
			Timeout:     "5m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   16384,
			Timeout:     "5m",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
			MaxRetries:      0, // interactive requests fail fast; the editor decides whether to resubmit
			RetryBackoff:    "2s",
		},
		Studio: StudioConfig{
			TemplatesDir:  "./profiles",
			ProfileModels: map[string]string{},
		},
		Sources: SourcesConfig{
			FetchExcerpts:  false,
			ExcerptChars:   2000,
			MaxBodyBytes:   2 << 20,
			RequestTimeout: "20s",
			UserAgent:      "Mozilla/5.0 (compatible; MagazineStudio/1.0)",
		},
		Interactions: InteractionsConfig{
			RequestTimeout: "10s",
		},
		WebSocket: WebSocketConfig{
			ThrottleInterval: "250ms",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. CLI flags are applied afterwards by ApplyFlagOverrides.
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
	if env := os.Getenv("MAGSTUDIO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("MAGSTUDIO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MAGSTUDIO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("MAGSTUDIO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("MAGSTUDIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("MAGSTUDIO_LOG_OUTPUT"); output != "" {
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

	// Gemini configuration
	if model := os.Getenv("MAGSTUDIO_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if rateLimit := os.Getenv("MAGSTUDIO_GEMINI_RATE_LIMIT"); rateLimit != "" {
		config.Gemini.RateLimit = rateLimit
	}

	// LLM configuration
	if provider := os.Getenv("MAGSTUDIO_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
	if retries := os.Getenv("MAGSTUDIO_LLM_MAX_RETRIES"); retries != "" {
		if r, err := strconv.Atoi(retries); err == nil && r >= 0 {
			config.LLM.MaxRetries = r
		}
	}

	// Studio configuration
	if dir := os.Getenv("MAGSTUDIO_TEMPLATES_DIR"); dir != "" {
		config.Studio.TemplatesDir = dir
	}

	// Sources configuration
	if fetch := os.Getenv("MAGSTUDIO_SOURCES_FETCH_EXCERPTS"); fetch != "" {
		if f, err := strconv.ParseBool(fetch); err == nil {
			config.Sources.FetchExcerpts = f
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ParseDurationOr parses a duration string, returning fallback when empty or invalid
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// ResolveAPIKey resolves an API key by name with environment variable priority
// Resolution order: environment variables → KV store → config fallback → error
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"MAGSTUDIO_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"anthropic_api_key": {"MAGSTUDIO_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}
