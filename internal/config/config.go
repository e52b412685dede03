// Package config loads and validates the service configuration from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Login Directory backends
const (
	BackendSheetDB  = "sheetdb"
	BackendPostgres = "postgres"
	BackendBolt     = "bbolt"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
	BackendZitadel  = "zitadel"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// BotToken is the Telegram bot token. Required.
	BotToken string `mapstructure:"BOT_TOKEN"`
	// BaseURL is the public URL of this service, used in login links and for the webhook.
	BaseURL string `mapstructure:"BASE_URL"`
	// Port is the HTTP listen port.
	Port string `mapstructure:"PORT"`
	// TelegramAPIURL is the Bot API endpoint.
	TelegramAPIURL string `mapstructure:"TELEGRAM_API_URL"`
	// WebhookSecret, when set, must match the X-Telegram-Bot-Api-Secret-Token header.
	WebhookSecret string `mapstructure:"WEBHOOK_SECRET"`

	// DirectoryBackend selects the Login Directory: sheetdb, postgres, bbolt, redis, zitadel or memory.
	DirectoryBackend string `mapstructure:"DIRECTORY_BACKEND"`
	// SheetDBURL is the SheetDB table URL. Required for the sheetdb backend.
	SheetDBURL string `mapstructure:"SHEETDB_URL"`
	// DatabaseURL is the Postgres DSN. Required for the postgres backend.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	BoltPath    string `mapstructure:"BOLT_PATH"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RedisPass   string `mapstructure:"REDIS_PASS"`

	// ZITADEL backend: instance domain, optional plain-text port, service user credentials and organization.
	ZitadelDomain       string `mapstructure:"ZITADEL_DOMAIN"`
	ZitadelInsecurePort string `mapstructure:"ZITADEL_INSECURE_PORT"`
	ZitadelPAT          string `mapstructure:"ZITADEL_PAT"`
	ZitadelKeyPath      string `mapstructure:"ZITADEL_KEY_PATH"`
	ZitadelOrgID        string `mapstructure:"ZITADEL_ORG_ID"`

	// HTTPTimeout bounds every outbound call (Telegram and Login Directory).
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
	// SweepInterval is how often expired OTP sessions are evicted; 0 disables the sweeper.
	SweepInterval time.Duration `mapstructure:"OTP_SWEEP_INTERVAL"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	Env         string `mapstructure:"APP_ENV"`

	// EnvFileLoaded reports whether a .env file was read.
	EnvFileLoaded bool `mapstructure:"-"`
}

// Load reads .env (if present), then builds and validates Config from the environment.
func Load() (*Config, error) {
	envFileLoaded := godotenv.Load() == nil

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("BOT_TOKEN", "")
	v.SetDefault("BASE_URL", "http://localhost:5000")
	v.SetDefault("PORT", "5000")
	v.SetDefault("TELEGRAM_API_URL", "https://api.telegram.org")
	v.SetDefault("WEBHOOK_SECRET", "")
	v.SetDefault("DIRECTORY_BACKEND", BackendSheetDB)
	v.SetDefault("SHEETDB_URL", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("BOLT_PATH", "logins.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASS", "")
	v.SetDefault("ZITADEL_DOMAIN", "")
	v.SetDefault("ZITADEL_INSECURE_PORT", "")
	v.SetDefault("ZITADEL_PAT", "")
	v.SetDefault("ZITADEL_KEY_PATH", "")
	v.SetDefault("ZITADEL_ORG_ID", "")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("OTP_SWEEP_INTERVAL", "1m")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "development")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.EnvFileLoaded = envFileLoaded

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("config: BOT_TOKEN must be set")
	}
	if c.Port == "" {
		return errors.New("config: PORT must be set")
	}
	if u, err := url.Parse(c.TelegramAPIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("config: TELEGRAM_API_URL must be an absolute http(s) URL")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("config: HTTP_TIMEOUT must be positive")
	}
	if c.SweepInterval < 0 {
		return errors.New("config: OTP_SWEEP_INTERVAL must not be negative")
	}

	c.DirectoryBackend = strings.ToLower(strings.TrimSpace(c.DirectoryBackend))
	switch c.DirectoryBackend {
	case BackendSheetDB:
		if c.SheetDBURL == "" {
			return errors.New("config: SHEETDB_URL must be set for the sheetdb backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL must be set for the postgres backend")
		}
	case BackendBolt:
		if c.BoltPath == "" {
			return errors.New("config: BOLT_PATH must be set for the bbolt backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("config: REDIS_ADDR must be set for the redis backend")
		}
	case BackendZitadel:
		if c.ZitadelDomain == "" || c.ZitadelOrgID == "" {
			return errors.New("config: ZITADEL_DOMAIN and ZITADEL_ORG_ID must be set for the zitadel backend")
		}
		if c.ZitadelPAT == "" && c.ZitadelKeyPath == "" {
			return errors.New("config: either ZITADEL_PAT or ZITADEL_KEY_PATH must be set for the zitadel backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown DIRECTORY_BACKEND %q", c.DirectoryBackend)
	}
	return nil
}

// ListenAddr returns the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

// WebhookURL returns the public URL Telegram should deliver updates to.
func (c *Config) WebhookURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/webhook"
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
