package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/machadoadv/lawsite/internal/shell/store"
)

// envPrefix prefixes every environment override, e.g. LAWSITE_DATABASE_DSN.
const envPrefix = "LAWSITE"

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Contact  ContactConfig  `mapstructure:"contact"`
	DataDir  string         `mapstructure:"data_dir"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// TrustProxy honours X-Forwarded-For / X-Real-IP. Enable only behind a
	// reverse proxy that sets them.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`

	// DSN is a file path for SQLite or a connection URL for Postgres.
	// An empty SQLite DSN resolves to lawsite.db under data_dir.
	DSN string `mapstructure:"dsn"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// Mode determines how the caller is identified.
	// "header" - trust identity headers set by the gateway; needs SharedSecret
	// "jwt" - verify session tokens signed with JWTSecret
	// "dev" - every request is an administrator (local development)
	// "none" - every request is anonymous (default)
	Mode string `mapstructure:"mode"`

	// SharedSecret must match the X-Gateway-Secret header in header mode.
	SharedSecret string `mapstructure:"shared_secret"`

	// JWTSecret and JWTIssuer configure token verification in jwt mode.
	JWTSecret string `mapstructure:"jwt_secret"`
	JWTIssuer string `mapstructure:"jwt_issuer"`
}

// CacheConfig holds the optional Redis cache of the public listing.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	RedisAddr string        `mapstructure:"redis_addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// ContactConfig holds contact form limits and notification settings.
// Notifications are sent only when SMTPHost and NotifyTo are set.
type ContactConfig struct {
	RatePerMinute int      `mapstructure:"rate_per_minute"`
	Burst         int      `mapstructure:"burst"`
	NotifyTo      []string `mapstructure:"notify_to"`
	SMTPHost      string   `mapstructure:"smtp_host"`
	SMTPPort      int      `mapstructure:"smtp_port"`
	SMTPUsername  string   `mapstructure:"smtp_username"`
	SMTPPassword  string   `mapstructure:"smtp_password"`
	SMTPFrom      string   `mapstructure:"smtp_from"`
}

// NotificationsEnabled reports whether contact e-mails should be sent.
func (c ContactConfig) NotificationsEnabled() bool {
	return c.SMTPHost != "" && len(c.NotifyTo) > 0
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from an optional .env file, an optional
// config file, and the environment, in increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("database.driver", store.DriverSQLite)
	v.SetDefault("database.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("auth.mode", "none")
	v.SetDefault("auth.shared_secret", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_issuer", "")

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "5m")

	// Contact defaults
	v.SetDefault("contact.rate_per_minute", 5)
	v.SetDefault("contact.burst", 3)
	v.SetDefault("contact.notify_to", []string{})
	v.SetDefault("contact.smtp_host", "")
	v.SetDefault("contact.smtp_port", 587)
	v.SetDefault("contact.smtp_username", "")
	v.SetDefault("contact.smtp_password", "")
	v.SetDefault("contact.smtp_from", "")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.DSN == "" && isSQLite(cfg.Database.Driver) {
		cfg.Database.DSN = filepath.Join(cfg.DataDir, "lawsite.db")
	}

	return &cfg, nil
}

// loadEnvFile loads path into the environment when it exists. Variables
// already set are not overridden.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func isSQLite(driver string) bool {
	switch driver {
	case "", store.DriverSQLite, "sqlite3":
		return true
	}
	return false
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
