package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the triage tools.
type Config struct {
	App          AppConfig
	Halo         HaloConfig
	OpenAI       OpenAIConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Notification NotificationConfig
	Stub         StubConfig
}

// AppConfig identifies the running tool.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// HaloConfig holds HaloPSA API connection values and the vendor numeric
// codes the triage workflow writes back. The defaults document the tenant
// meaning of each code; every one can be overridden per deployment.
type HaloConfig struct {
	BaseURL                  string
	ClientID                 string
	ClientSecret             string
	Scope                    string
	TokenSafetyMarginSeconds int
	RequestTimeoutSeconds    int

	// Vendor status codes. Only "New" and "In Progress" are ever referenced.
	StatusNew        int
	StatusInProgress int

	// Fallbacks applied when category matching or agent-id coercion fails.
	DefaultCategoryID int
	DefaultAgentID    int
	DefaultUserID     int

	// Label recorded as the action outcome on triage notes.
	NoteOutcome string

	// Similarity cutoff for the fuzzy category match, 0..1.
	CategoryMatchCutoff float64
}

// OpenAIConfig holds LLM API connection and sampling values.
type OpenAIConfig struct {
	APIKey                string
	BaseURL               string
	Model                 string
	MaxTokens             int
	Temperature           float64
	MaxSummaryChars       int
	MaxDetailsChars       int
	RequestTimeoutSeconds int
}

// RedisConfig holds connection values for the ticket archive.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// NotificationConfig holds the optional triage-event webhook endpoint.
type NotificationConfig struct {
	WebhookURL string
}

// StubConfig configures the local HaloPSA stand-in server.
type StubConfig struct {
	Addr            string
	JWTSecret       string
	TokenTTLMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cutoff, err := strconv.ParseFloat(getEnv("HALO_CATEGORY_MATCH_CUTOFF", "0.3"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid HALO_CATEGORY_MATCH_CUTOFF: %w", err)
	}

	temperature, err := strconv.ParseFloat(getEnv("OPENAI_TEMPERATURE", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OPENAI_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "hectic-ai-support"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Halo: HaloConfig{
			BaseURL:                  os.Getenv("HALO_BASE_URL"),
			ClientID:                 os.Getenv("HALO_CLIENT_ID"),
			ClientSecret:             os.Getenv("HALO_CLIENT_SECRET"),
			Scope:                    getEnv("HALO_SCOPE", "all"),
			TokenSafetyMarginSeconds: getEnvAsInt("HALO_TOKEN_SAFETY_MARGIN_SECONDS", 60),
			RequestTimeoutSeconds:    getEnvAsInt("HALO_REQUEST_TIMEOUT_SECONDS", 30),
			StatusNew:                getEnvAsInt("HALO_STATUS_NEW", 1),
			StatusInProgress:         getEnvAsInt("HALO_STATUS_IN_PROGRESS", 2),
			DefaultCategoryID:        getEnvAsInt("HALO_DEFAULT_CATEGORY_ID", 137),
			DefaultAgentID:           getEnvAsInt("HALO_DEFAULT_AGENT_ID", 3),
			DefaultUserID:            getEnvAsInt("HALO_DEFAULT_USER_ID", 125),
			NoteOutcome:              getEnv("HALO_NOTE_OUTCOME", "Private Note"),
			CategoryMatchCutoff:      cutoff,
		},
		OpenAI: OpenAIConfig{
			APIKey:                os.Getenv("OPENAI_API_KEY"),
			BaseURL:               getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:                 getEnv("OPENAI_MODEL", "gpt-4"),
			MaxTokens:             getEnvAsInt("OPENAI_MAX_TOKENS", 500),
			Temperature:           temperature,
			MaxSummaryChars:       getEnvAsInt("OPENAI_MAX_SUMMARY_CHARS", 1000),
			MaxDetailsChars:       getEnvAsInt("OPENAI_MAX_DETAILS_CHARS", 3000),
			RequestTimeoutSeconds: getEnvAsInt("OPENAI_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "halo:ticket:"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Notification: NotificationConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Stub: StubConfig{
			Addr:            getEnv("HALOSTUB_ADDR", "127.0.0.1:8484"),
			JWTSecret:       getEnv("HALOSTUB_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("HALOSTUB_TOKEN_TTL_MINUTES", 60),
		},
	}

	return cfg, nil
}

// Validate checks that the credentials required by the production tools are present.
// Debug and test-data tools call this too: no tool accepts literal credentials.
func (c *Config) Validate() error {
	if c.Halo.BaseURL == "" {
		return fmt.Errorf("HALO_BASE_URL must be set")
	}
	if c.Halo.ClientID == "" || c.Halo.ClientSecret == "" {
		return fmt.Errorf("HALO_CLIENT_ID and HALO_CLIENT_SECRET must be set")
	}
	return nil
}

// RequestTimeout returns the configured HaloPSA request timeout duration.
func (h HaloConfig) RequestTimeout() time.Duration {
	if h.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(h.RequestTimeoutSeconds) * time.Second
}

// TokenSafetyMargin returns the margin subtracted from the token lifetime.
func (h HaloConfig) TokenSafetyMargin() time.Duration {
	return time.Duration(h.TokenSafetyMarginSeconds) * time.Second
}

// RequestTimeout returns the configured LLM request timeout duration.
func (o OpenAIConfig) RequestTimeout() time.Duration {
	if o.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(o.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
