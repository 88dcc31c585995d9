package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  string          `mapstructure:"server_port"`
	Environment string          `mapstructure:"environment"`
	ClientURL   string          `mapstructure:"client_url"`
	RedisURL    string          `mapstructure:"redis_url"`
	Database    DatabaseConfig  `mapstructure:"database"`
	JWT         JWTConfig       `mapstructure:"jwt"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Google      GoogleConfig    `mapstructure:"google"`
	MinIO       MinIOConfig     `mapstructure:"minio"`
	PDF         PDFConfig       `mapstructure:"pdf"`
	Events      EventsConfig    `mapstructure:"events"`
}

// DatabaseConfig selects the GORM dialect: postgres (DATABASE_URL) or sqlite (DB_PATH).
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
	Path   string `mapstructure:"path"`
}

type JWTConfig struct {
	Secret           string        `mapstructure:"secret"`
	RefreshSecret    string        `mapstructure:"refresh_secret"`
	ExpiresIn        time.Duration `mapstructure:"expires_in"`
	RefreshExpiresIn time.Duration `mapstructure:"refresh_expires_in"`
}

type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type GoogleConfig struct {
	ClientID      string `mapstructure:"client_id"`
	ClientSecret  string `mapstructure:"client_secret"`
	CallbackURL   string `mapstructure:"callback_url"`
	SessionSecret string `mapstructure:"session_secret"`
}

// TokenLoginEnabled reports whether POST /api/auth/google can verify ID tokens.
func (g GoogleConfig) TokenLoginEnabled() bool {
	return g.ClientID != ""
}

// RedirectLoginEnabled reports whether the browser OAuth redirect flow is configured.
func (g GoogleConfig) RedirectLoginEnabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.CallbackURL != ""
}

type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// Enabled is false when no endpoint is set; PDF archiving is then unavailable.
func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != ""
}

type PDFConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	ChromeBin string        `mapstructure:"chrome_bin"`
}

// EventsConfig controls where undeliverable content events wait for replay.
// An empty WALPath turns the outbox off.
type EventsConfig struct {
	WALPath        string        `mapstructure:"wal_path"`
	ReplayInterval time.Duration `mapstructure:"replay_interval"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	// (Docker containers use environment variables directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// SERVER_PORT=5000 and SERVER_PORT=:5000 are both accepted
	if cfg.ServerPort != "" && !strings.Contains(cfg.ServerPort, ":") {
		cfg.ServerPort = ":" + cfg.ServerPort
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", ":5000")
	v.SetDefault("environment", "development")
	v.SetDefault("client_url", "http://localhost:3000")
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.path", "portfolio.db")
	v.SetDefault("jwt.expires_in", "1h")
	v.SetDefault("jwt.refresh_expires_in", "168h")
	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.window", "15m")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("pdf.timeout", "30s")
	v.SetDefault("events.wal_path", "data/events.wal")
	v.SetDefault("events.replay_interval", "30s")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"server_port":              "SERVER_PORT",
		"environment":              "ENVIRONMENT",
		"client_url":               "CLIENT_URL",
		"redis_url":                "REDIS_URL",
		"database.driver":          "DB_DRIVER",
		"database.url":             "DATABASE_URL",
		"database.path":            "DB_PATH",
		"jwt.secret":               "JWT_SECRET",
		"jwt.refresh_secret":       "JWT_REFRESH_SECRET",
		"jwt.expires_in":           "JWT_EXPIRES_IN",
		"jwt.refresh_expires_in":   "JWT_REFRESH_EXPIRES_IN",
		"rate_limit.max_requests":  "RATE_LIMIT_MAX_REQUESTS",
		"rate_limit.window":        "RATE_LIMIT_WINDOW",
		"google.client_id":         "GOOGLE_CLIENT_ID",
		"google.client_secret":     "GOOGLE_CLIENT_SECRET",
		"google.callback_url":      "GOOGLE_CALLBACK_URL",
		"google.session_secret":    "SESSION_SECRET",
		"minio.endpoint":           "MINIO_ENDPOINT",
		"minio.public_endpoint":    "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":      "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":  "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":            "MINIO_USE_SSL",
		"minio.bucket":             "MINIO_BUCKET",
		"minio.region":             "MINIO_REGION",
		"minio.auto_create_bucket": "MINIO_AUTO_CREATE_BUCKET",
		"pdf.timeout":              "PDF_TIMEOUT",
		"pdf.chrome_bin":           "CHROME_BIN",
		"events.wal_path":          "EVENTS_WAL_PATH",
		"events.replay_interval":   "EVENTS_REPLAY_INTERVAL",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg *Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.JWT.RefreshSecret == "" {
		return errors.New("JWT_REFRESH_SECRET is required")
	}
	if cfg.JWT.ExpiresIn <= 0 || cfg.JWT.RefreshExpiresIn <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case "sqlite":
		if cfg.Database.Path == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.RateLimit.MaxRequests <= 0 || cfg.RateLimit.Window <= 0 {
		return errors.New("rate limit must allow at least one request per positive window")
	}
	if cfg.Events.WALPath != "" && cfg.Events.ReplayInterval <= 0 {
		return errors.New("EVENTS_REPLAY_INTERVAL must be positive")
	}
	if cfg.MinIO.Enabled() && (cfg.MinIO.AccessKeyID == "" || cfg.MinIO.SecretAccessKey == "") {
		return errors.New("minio credentials are required when MINIO_ENDPOINT is set")
	}
	if cfg.Google.RedirectLoginEnabled() && cfg.Google.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required for the Google redirect flow")
	}
	return nil
}
