package conf

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
	"github.com/devricklin/slack-dify-bridge/internal/infra/dify"
)

// Config represents application configuration
type Config struct {
	// Slack configuration
	Slack SlackConfig

	// Dify configuration
	Dify DifyConfig

	// Dedup guard configuration
	Dedup DedupConfig

	// DefaultModel is used for users without a stored preference
	DefaultModel string

	// CannedResponsesPath overrides the built-in canned answer table
	CannedResponsesPath string

	// LogLevel is one of debug, info, warn, error
	LogLevel string

	// Debug mode, also enables slack-go debug output
	Debug bool

	// Variables that were set but could not be parsed
	parseErrors []*ConfigError
}

// SlackConfig contains Slack configuration
type SlackConfig struct {
	BotToken      string
	AppToken      string
	SigningSecret string // not needed in Socket Mode
}

// DifyConfig contains Dify configuration
type DifyConfig struct {
	APIKey  string
	BaseURL string
}

// DedupConfig contains dedup guard configuration
type DedupConfig struct {
	Capacity     int
	TrimInterval time.Duration
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	baseURL := os.Getenv("DIFY_BASE_URL")
	if baseURL == "" {
		baseURL = dify.DefaultBaseURL
	}

	defaultModel := os.Getenv("DEFAULT_MODEL")
	if defaultModel == "" {
		defaultModel = string(domain.DefaultModel)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	var parseErrors []*ConfigError
	capacity := envInt("DEDUP_CAPACITY", 100, &parseErrors)
	trimSeconds := envInt("DEDUP_TRIM_SECONDS", 60, &parseErrors)

	return &Config{
		Slack: SlackConfig{
			BotToken:      os.Getenv("SLACK_BOT_TOKEN"),
			AppToken:      os.Getenv("SLACK_APP_TOKEN"),
			SigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		},
		Dify: DifyConfig{
			APIKey:  os.Getenv("DIFY_API_KEY"),
			BaseURL: baseURL,
		},
		Dedup: DedupConfig{
			Capacity:     capacity,
			TrimInterval: time.Duration(trimSeconds) * time.Second,
		},
		DefaultModel:        defaultModel,
		CannedResponsesPath: os.Getenv("CANNED_RESPONSES_PATH"),
		LogLevel:            logLevel,
		Debug:               os.Getenv("DEBUG") == "true",
		parseErrors:         parseErrors,
	}
}

// envInt reads an integer variable. A set but malformed value is recorded
// in errs and def is returned.
func envInt(key string, def int, errs *[]*ConfigError) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		*errs = append(*errs, &ConfigError{Field: key, Message: "must be an integer, got " + strconv.Quote(val)})
		return def
	}
	return parsed
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.parseErrors) > 0 {
		return c.parseErrors[0]
	}
	if c.Slack.BotToken == "" {
		return &ConfigError{Field: "SLACK_BOT_TOKEN", Message: "required"}
	}
	if !strings.HasPrefix(c.Slack.BotToken, "xoxb-") {
		return &ConfigError{Field: "SLACK_BOT_TOKEN", Message: "must start with xoxb-"}
	}
	if c.Slack.AppToken == "" {
		return &ConfigError{Field: "SLACK_APP_TOKEN", Message: "required for Socket Mode"}
	}
	if !strings.HasPrefix(c.Slack.AppToken, "xapp-") {
		return &ConfigError{Field: "SLACK_APP_TOKEN", Message: "must start with xapp-"}
	}
	if c.Dify.APIKey == "" {
		return &ConfigError{Field: "DIFY_API_KEY", Message: "required"}
	}
	if _, err := domain.ParseModel(c.DefaultModel); err != nil {
		return &ConfigError{Field: "DEFAULT_MODEL", Message: err.Error()}
	}
	if c.Dedup.Capacity <= 0 {
		return &ConfigError{Field: "DEDUP_CAPACITY", Message: "must be positive"}
	}
	if c.Dedup.TrimInterval <= 0 {
		return &ConfigError{Field: "DEDUP_TRIM_SECONDS", Message: "must be positive"}
	}
	return nil
}

// Model returns the validated default model
func (c *Config) Model() domain.Model {
	m, err := domain.ParseModel(c.DefaultModel)
	if err != nil {
		return domain.DefaultModel
	}
	return m
}

// SlogLevel converts LogLevel, with Debug forcing debug level
func (c *Config) SlogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
