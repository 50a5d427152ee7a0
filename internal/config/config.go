package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	GinMode     string   `yaml:"gin_mode"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type PostgresConfig struct {
	DatabaseURL string `yaml:"database_url"`
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	SSLMode     string `yaml:"sslmode"`
}

// AuthConfig holds the token secrets and cookie delivery settings.
// Secrets are loaded once at startup and never mutated afterwards.
type AuthConfig struct {
	AccessSecret  string        `yaml:"access_secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessTTL     time.Duration `yaml:"access_ttl"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl"`
	CookieDomain  string        `yaml:"cookie_domain"`
	CookieSecure  bool          `yaml:"cookie_secure"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
}

type RedisConfig struct {
	Addr             string        `yaml:"addr"`
	Password         string        `yaml:"password"`
	DB               int           `yaml:"db"`
	MaxLoginAttempts int           `yaml:"max_login_attempts"`
	LockoutWindow    time.Duration `yaml:"lockout_window"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load builds the runtime configuration.
//
// Order: defaults, then the optional YAML file named by CONFIG_FILE, then
// environment variables (a .env file in the working directory is loaded first
// if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":5501",
			GinMode: "release",
		},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
		},
		Auth: AuthConfig{
			AccessTTL:    time.Hour,
			RefreshTTL:   365 * 24 * time.Hour,
			CookieDomain: "localhost",
			CookieSecure: true,
		},
		Redis: RedisConfig{
			MaxLoginAttempts: 5,
			LockoutWindow:    15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "SERVER_ADDR")
	setString(&cfg.Server.GinMode, "GIN_MODE")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}

	setString(&cfg.Postgres.DatabaseURL, "DATABASE_URL")
	setString(&cfg.Postgres.Host, "PGHOST")
	setString(&cfg.Postgres.Port, "PGPORT")
	setString(&cfg.Postgres.User, "PGUSER")
	setString(&cfg.Postgres.Password, "PGPASSWORD")
	setString(&cfg.Postgres.Database, "PGDATABASE")
	setString(&cfg.Postgres.SSLMode, "PGSSLMODE")

	setString(&cfg.Auth.AccessSecret, "ACCESS_TOKEN_SECRET")
	setString(&cfg.Auth.RefreshSecret, "REFRESH_TOKEN_SECRET")
	setString(&cfg.Auth.CookieDomain, "AUTH_COOKIE_DOMAIN")
	setString(&cfg.Auth.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.Auth.AdminPassword, "ADMIN_PASSWORD")
	if err := setDuration(&cfg.Auth.AccessTTL, "ACCESS_TOKEN_TTL"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Auth.RefreshTTL, "REFRESH_TOKEN_TTL"); err != nil {
		return err
	}
	if err := setBool(&cfg.Auth.CookieSecure, "AUTH_COOKIE_SECURE"); err != nil {
		return err
	}

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if err := setInt(&cfg.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}
	if err := setInt(&cfg.Redis.MaxLoginAttempts, "LOGIN_MAX_ATTEMPTS"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Redis.LockoutWindow, "LOGIN_LOCKOUT_WINDOW"); err != nil {
		return err
	}

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	return nil
}

func setString(dst *string, key string) {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		*dst = val
	}
}

func setDuration(dst *time.Duration, key string) error {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
