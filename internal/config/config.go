// Application configuration loaded from environment variables.
//
// Environment:
//   - APP_NAME (default: boiler)
//   - APP_ENV: development | production | test (default: production)
//   - PORT (default: 4040)
//   - ALLOWED_ORIGINS: comma-separated CORS allow list
//   - DATABASE_URL or PGHOST/PGPORT/PGUSER/PGPASSWORD/PGDATABASE/PGSSLMODE
//   - JWT_SECRET, JWT_REFRESH_SECRET: independent signing secrets per token kind
//   - JWT_ACCESS_TTL, JWT_REFRESH_TTL: Go durations, defaults depend on APP_ENV
//   - GLOBAL_RATE_LIMIT_MAX, PER_IP_RATE_LIMIT_MAX: requests per minute

package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	AppName        string
	Env            string
	Port           string
	AllowedOrigins []string
	Postgres       PostgresConfig
	Auth           AuthConfig
	RateLimit      RateLimitConfig
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type RateLimitConfig struct {
	GlobalPerMinute int
	PerIPPerMinute  int
}

func Load() (Config, error) {
	env := getenv("APP_ENV", EnvProduction)
	switch env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q", env)
	}

	// Short access / long refresh lifetimes in production; relaxed in
	// development so local frontends do not have to refresh constantly.
	accessDefault, refreshDefault := 15*time.Minute, 7*24*time.Hour
	if env == EnvDevelopment {
		accessDefault, refreshDefault = 2*time.Hour, 20*24*time.Hour
	}

	accessTTL, err := getduration("JWT_ACCESS_TTL", accessDefault)
	if err != nil {
		return Config{}, err
	}
	refreshTTL, err := getduration("JWT_REFRESH_TTL", refreshDefault)
	if err != nil {
		return Config{}, err
	}

	globalMax, err := getint("GLOBAL_RATE_LIMIT_MAX", 100)
	if err != nil {
		return Config{}, err
	}
	perIPMax, err := getint("PER_IP_RATE_LIMIT_MAX", 10)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName: getenv("APP_NAME", "boiler"),
		Env:     env,
		Port:    getenv("PORT", "4040"),
		AllowedOrigins: splitOrigins(getenv("ALLOWED_ORIGINS",
			"http://localhost:5173,http://localhost:3000")),
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Auth: AuthConfig{
			AccessSecret:  os.Getenv("JWT_SECRET"),
			RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
			AccessTTL:     accessTTL,
			RefreshTTL:    refreshTTL,
		},
		RateLimit: RateLimitConfig{
			GlobalPerMinute: globalMax,
			PerIPPerMinute:  perIPMax,
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}

	if c.Env != EnvDevelopment {
		if len(c.Auth.AccessSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters, got %d", len(c.Auth.AccessSecret))
		}
		if len(c.Auth.RefreshSecret) < 32 {
			return fmt.Errorf("JWT_REFRESH_SECRET must be at least 32 characters, got %d", len(c.Auth.RefreshSecret))
		}
	}
	// A leaked access-signing secret must not allow forging refresh tokens.
	if c.Auth.AccessSecret != "" && c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}

	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.RateLimit.GlobalPerMinute < 1 || c.RateLimit.PerIPPerMinute < 1 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}

func (c Config) Production() bool {
	return c.Env == EnvProduction
}

// DSN builds the connection string, preferring DATABASE_URL.
func (c PostgresConfig) DSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.User == "" || c.Database == "" {
		return "", fmt.Errorf("missing required env: DATABASE_URL or PGUSER/PGDATABASE")
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   c.Database,
	}
	if c.Password == "" {
		u.User = url.User(c.User)
	} else {
		u.User = url.UserPassword(c.User, c.Password)
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getduration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
