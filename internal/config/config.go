package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values.
type Config struct {
	// HTTP API
	HTTPAddr       string   `env:"HTTP_ADDR" envDefault:":8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	DatabaseURL    string   `env:"DATABASE_URL"`
	RabbitMQURL    string   `env:"RABBITMQ_URL"`

	// SMTP delivery
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// Content generation
	LLMProvider     string  `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMModel        string  `env:"LLM_MODEL" envDefault:"gpt-4o"`
	LLMTemperature  float64 `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	OpenAIAPIKey    string  `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string  `env:"ANTHROPIC_API_KEY"`
	OllamaHost      string  `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`

	// Enrichment
	ApolloAPIKey        string        `env:"APOLLO_API_KEY"`
	HunterAPIKey        string        `env:"HUNTER_API_KEY"`
	EnrichmentProviders []string      `env:"ENRICHMENT_PROVIDERS" envDefault:"apollo,hunter" envSeparator:","`
	ProviderTimeout     time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"30s"`

	// Campaign pacing
	MaxEmailsPerRun      int `env:"MAX_EMAILS_PER_RUN" envDefault:"50"`
	EmailDelayMinSeconds int `env:"EMAIL_DELAY_MIN_SECONDS" envDefault:"15"`
	EmailDelayMaxSeconds int `env:"EMAIL_DELAY_MAX_SECONDS" envDefault:"45"`

	// API rate limiting
	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"30"`
	RateLimitWindow      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`

	// Local files
	SenderProfileFile string `env:"SENDER_PROFILE_FILE" envDefault:"profile.yaml"`
	ContactsFile      string `env:"CONTACTS_FILE" envDefault:"contacts.csv"`
	LedgerFile        string `env:"LEDGER_FILE" envDefault:"outreach_log.csv"`
	DraftsDir         string `env:"DRAFTS_DIR" envDefault:"drafts"`

	// Logging
	LogFile  string `env:"LOG_FILE" envDefault:"/tmp/outreach.log"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`

	// Workers
	StatusSyncInterval time.Duration `env:"STATUS_SYNC_INTERVAL" envDefault:"1m"`
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate lists settings that make some operation impossible. None of them
// is fatal on its own; callers decide which ones matter.
func (c Config) Validate() []string {
	var problems []string

	switch strings.ToLower(c.LLMProvider) {
	case "openai":
		if c.OpenAIAPIKey == "" {
			problems = append(problems, "OPENAI_API_KEY is not set, messages will use the local fallback")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			problems = append(problems, "ANTHROPIC_API_KEY is not set, messages will use the local fallback")
		}
	case "ollama":
	default:
		problems = append(problems, fmt.Sprintf("LLM_PROVIDER %q is not supported", c.LLMProvider))
	}

	if c.SMTPHost == "" {
		problems = append(problems, "SMTP_HOST is not set, send mode is unavailable")
	}
	if c.ApolloAPIKey == "" && c.HunterAPIKey == "" {
		problems = append(problems, "no enrichment provider key is set")
	}
	if c.EmailDelayMinSeconds < 0 || c.EmailDelayMaxSeconds < c.EmailDelayMinSeconds {
		problems = append(problems, "EMAIL_DELAY_MIN_SECONDS/EMAIL_DELAY_MAX_SECONDS do not form a valid range")
	}
	if c.RateLimitMaxRequests <= 0 {
		problems = append(problems, "RATE_LIMIT_MAX_REQUESTS is not positive, API rate limiting is disabled")
	}
	if c.MaxEmailsPerRun <= 0 {
		problems = append(problems, "MAX_EMAILS_PER_RUN must be positive")
	}
	return problems
}

func (c Config) EmailDelayMin() time.Duration {
	return time.Duration(c.EmailDelayMinSeconds) * time.Second
}

func (c Config) EmailDelayMax() time.Duration {
	return time.Duration(c.EmailDelayMaxSeconds) * time.Second
}

func (c Config) Level() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
