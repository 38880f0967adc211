// Package config loads the service configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	CORSOrigins []string

	Text    TextConfig
	Mail    MailConfig
	Quiz    QuizConfig
	Storage StorageConfig
}

// TextConfig configures the text-generation provider used for analyses.
type TextConfig struct {
	Provider    string // "openai", "gemini", "anthropic", "mock"
	APIKey      string `json:"-"`
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

// Enabled reports whether the provider has what it needs to be called.
func (c TextConfig) Enabled() bool {
	return c.Provider == "mock" || c.APIKey != ""
}

type MailConfig struct {
	Provider string // "emailjs" or "smtp"
	Timeout  time.Duration
	EmailJS  EmailJSConfig
	SMTP     SMTPConfig
}

type EmailJSConfig struct {
	Endpoint    string
	ServiceID   string
	TemplateID  string
	PublicKey   string
	AccessToken string `json:"-"`
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string `json:"-"`
	From       string
	FromName   string
	To         string
	UseSSL     bool
	RequireTLS bool
}

type QuizConfig struct {
	DiscountMin       int
	DiscountMax       int
	InterstitialDelay time.Duration
	SubmitTimeout     time.Duration
	SessionTTL        time.Duration
}

type StorageConfig struct {
	SessionDriver  string // "memory" or "redis"
	SnapshotDriver string // "memory", "redis", "postgres" or "sqlite"
	PostgresURL    string `json:"-"`
	RedisURL       string `json:"-"`
	SQLitePath     string
	SnapshotTTL    time.Duration
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Port:        "8080",
		Env:         "development",
		CORSOrigins: []string{"*"},
		Text: TextConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     12 * time.Second,
			Temperature: 0.3,
			MaxTokens:   800,
		},
		Mail: MailConfig{
			Provider: "emailjs",
			Timeout:  15 * time.Second,
			EmailJS: EmailJSConfig{
				Endpoint: "https://api.emailjs.com/api/v1.0/email/send",
			},
			SMTP: SMTPConfig{
				Host:       "smtp.gmail.com",
				Port:       587,
				RequireTLS: true,
				FromName:   "Equipe de Treino",
			},
		},
		Quiz: QuizConfig{
			DiscountMin:       50,
			DiscountMax:       100,
			InterstitialDelay: 3 * time.Second,
			SubmitTimeout:     12 * time.Second,
			SessionTTL:        2 * time.Hour,
		},
		Storage: StorageConfig{
			SessionDriver:  "memory",
			SnapshotDriver: "memory",
			SQLitePath:     "fitfunnel.db",
			SnapshotTTL:    30 * 24 * time.Hour,
		},
	}
}

// Load reads .env (if any) and the process environment on top of Default.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Default()

	cfg.Port = getEnvWithDefault("PORT", cfg.Port)
	cfg.Env = getEnvWithDefault("APP_ENV", cfg.Env)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	cfg.Text.Provider = strings.ToLower(getEnvWithDefault("TEXT_PROVIDER", cfg.Text.Provider))
	cfg.Text.BaseURL = os.Getenv("TEXT_BASE_URL")
	switch cfg.Text.Provider {
	case "openai":
		cfg.Text.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.Text.Model = getEnvWithDefault("OPENAI_MODEL", cfg.Text.Model)
	case "gemini":
		cfg.Text.APIKey = os.Getenv("GEMINI_API_KEY")
		cfg.Text.Model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
	case "anthropic":
		cfg.Text.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		cfg.Text.Model = getEnvWithDefault("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001")
	case "mock":
		cfg.Text.Model = "mock"
	}

	var err error
	if cfg.Text.Timeout, err = getDuration("TEXT_TIMEOUT", cfg.Text.Timeout); err != nil {
		return cfg, err
	}
	if cfg.Text.MaxTokens, err = getInt("TEXT_MAX_TOKENS", cfg.Text.MaxTokens); err != nil {
		return cfg, err
	}
	if v := os.Getenv("TEXT_TEMPERATURE"); v != "" {
		t, perr := strconv.ParseFloat(v, 32)
		if perr != nil {
			return cfg, fmt.Errorf("TEXT_TEMPERATURE: %w", perr)
		}
		cfg.Text.Temperature = float32(t)
	}

	cfg.Mail.Provider = strings.ToLower(getEnvWithDefault("MAIL_PROVIDER", cfg.Mail.Provider))
	if cfg.Mail.Timeout, err = getDuration("MAIL_TIMEOUT", cfg.Mail.Timeout); err != nil {
		return cfg, err
	}
	cfg.Mail.EmailJS.Endpoint = getEnvWithDefault("EMAILJS_ENDPOINT", cfg.Mail.EmailJS.Endpoint)
	cfg.Mail.EmailJS.ServiceID = os.Getenv("EMAILJS_SERVICE_ID")
	cfg.Mail.EmailJS.TemplateID = os.Getenv("EMAILJS_TEMPLATE_ID")
	cfg.Mail.EmailJS.PublicKey = os.Getenv("EMAILJS_PUBLIC_KEY")
	cfg.Mail.EmailJS.AccessToken = os.Getenv("EMAILJS_ACCESS_TOKEN")

	cfg.Mail.SMTP.Host = getEnvWithDefault("SMTP_HOST", cfg.Mail.SMTP.Host)
	if cfg.Mail.SMTP.Port, err = getInt("SMTP_PORT", cfg.Mail.SMTP.Port); err != nil {
		return cfg, err
	}
	cfg.Mail.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.Mail.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.Mail.SMTP.From = getEnvWithDefault("SMTP_FROM", cfg.Mail.SMTP.Username)
	cfg.Mail.SMTP.FromName = getEnvWithDefault("SMTP_FROM_NAME", cfg.Mail.SMTP.FromName)
	cfg.Mail.SMTP.To = os.Getenv("LEAD_INBOX")
	cfg.Mail.SMTP.UseSSL = getBool("SMTP_USE_SSL", cfg.Mail.SMTP.UseSSL)
	cfg.Mail.SMTP.RequireTLS = getBool("SMTP_REQUIRE_TLS", cfg.Mail.SMTP.RequireTLS)

	if cfg.Quiz.DiscountMin, err = getInt("DISCOUNT_MIN", cfg.Quiz.DiscountMin); err != nil {
		return cfg, err
	}
	if cfg.Quiz.DiscountMax, err = getInt("DISCOUNT_MAX", cfg.Quiz.DiscountMax); err != nil {
		return cfg, err
	}
	if cfg.Quiz.InterstitialDelay, err = getDuration("INTERSTITIAL_DELAY", cfg.Quiz.InterstitialDelay); err != nil {
		return cfg, err
	}
	if cfg.Quiz.SubmitTimeout, err = getDuration("SUBMIT_TIMEOUT", cfg.Quiz.SubmitTimeout); err != nil {
		return cfg, err
	}
	if cfg.Quiz.SessionTTL, err = getDuration("SESSION_TTL", cfg.Quiz.SessionTTL); err != nil {
		return cfg, err
	}

	cfg.Storage.SessionDriver = strings.ToLower(getEnvWithDefault("SESSION_DRIVER", cfg.Storage.SessionDriver))
	cfg.Storage.SnapshotDriver = strings.ToLower(getEnvWithDefault("SNAPSHOT_DRIVER", cfg.Storage.SnapshotDriver))
	cfg.Storage.PostgresURL = os.Getenv("POSTGRES_URL")
	cfg.Storage.RedisURL = os.Getenv("REDIS_URL")
	cfg.Storage.SQLitePath = getEnvWithDefault("SQLITE_PATH", cfg.Storage.SQLitePath)
	if cfg.Storage.SnapshotTTL, err = getDuration("SNAPSHOT_TTL", cfg.Storage.SnapshotTTL); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges and that every selected backend has its
// connection settings. Missing provider credentials are not an error: the
// analysis falls back to local text and email is skipped.
func (c Config) Validate() error {
	switch c.Text.Provider {
	case "openai", "gemini", "anthropic", "mock":
	default:
		return fmt.Errorf("unknown TEXT_PROVIDER: %q", c.Text.Provider)
	}

	switch c.Mail.Provider {
	case "emailjs", "smtp":
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER: %q", c.Mail.Provider)
	}

	if c.Quiz.DiscountMin < 0 || c.Quiz.DiscountMax < c.Quiz.DiscountMin {
		return fmt.Errorf("invalid discount range [%d, %d]", c.Quiz.DiscountMin, c.Quiz.DiscountMax)
	}
	if c.Quiz.SubmitTimeout <= 0 {
		return fmt.Errorf("SUBMIT_TIMEOUT must be positive")
	}

	switch c.Storage.SessionDriver {
	case "memory":
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis session driver")
		}
	default:
		return fmt.Errorf("unknown SESSION_DRIVER: %q", c.Storage.SessionDriver)
	}

	switch c.Storage.SnapshotDriver {
	case "memory":
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis snapshot driver")
		}
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required for the postgres snapshot driver")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite snapshot driver")
		}
	default:
		return fmt.Errorf("unknown SNAPSHOT_DRIVER: %q", c.Storage.SnapshotDriver)
	}

	return nil
}

// UsesRedis reports whether any store needs a Redis connection.
func (c Config) UsesRedis() bool {
	return c.Storage.SessionDriver == "redis" || c.Storage.SnapshotDriver == "redis"
}

// IsProduction switches gin and zap to their production modes.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
