package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	ServerPort  string
	AppEnv      string
	LogLevel    string
	StoreDriver string
	DB          DBConfig
	Session     SessionConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.StoreDriver != StorePostgres && c.StoreDriver != StoreMemory {
		return fmt.Errorf("invalid STORE_DRIVER %q: must be postgres or memory", c.StoreDriver)
	}
	if c.StoreDriver == StoreMemory && c.AppEnv != "local" {
		return fmt.Errorf("STORE_DRIVER=memory must not be used in %s environment", c.AppEnv)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.AppEnv != "local" && c.Session.Secret == defaultLocalSecret {
		return fmt.Errorf("SESSION_SECRET must be set explicitly in %s environment", c.AppEnv)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("invalid SESSION_TTL %v: must be a positive duration", c.Session.TTL)
	}
	return nil
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
}

const defaultLocalSecret = "local-dev-secret"

func Load() Config {
	return Config{
		ServerPort:  envOrDefault("SERVER_PORT", "8080"),
		AppEnv:      envOrDefault("APP_ENV", "local"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		StoreDriver: envOrDefault("STORE_DRIVER", StorePostgres),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "tasktrack"),
			Password: envOrDefault("DB_PASSWORD", "tasktrack"),
			Name:     envOrDefault("DB_NAME", "tasktrack"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret:     envOrDefault("SESSION_SECRET", defaultLocalSecret),
			CookieName: envOrDefault("SESSION_COOKIE_NAME", "session"),
			TTL:        envDurationOrDefault("SESSION_TTL", 24*time.Hour),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
