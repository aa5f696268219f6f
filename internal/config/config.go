package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	TCGdex    TCGdexConfig    `yaml:"tcgdex"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"APP_ADDR"                env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
}

// DatabaseConfig holds PostgreSQL connection settings for both credential
// tiers. ReadDSN connects as the restricted reader role used by catalog
// queries; ServiceDSN connects as the elevated role that owns writes.
type DatabaseConfig struct {
	ReadDSN         string        `yaml:"read_dsn"           env:"DB_READ_DSN"           env-required:"true"`
	ServiceDSN      string        `yaml:"service_dsn"        env:"DB_SERVICE_DSN"        env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DB_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DB_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DB_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME" env-default:"30m"`
	QueryTimeout    time.Duration `yaml:"query_timeout"      env:"DB_QUERY_TIMEOUT"      env-default:"5s"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"     env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"AUTH_TOKEN_TTL" env-default:"24h"`
}

// TCGdexConfig holds settings for the upstream catalog provider.
type TCGdexConfig struct {
	BaseURL      string        `yaml:"base_url"       env:"TCGDEX_BASE_URL"      env-default:"https://api.tcgdex.net/v2/en"`
	Timeout      time.Duration `yaml:"timeout"        env:"TCGDEX_TIMEOUT"       env-default:"15s"`
	SeedTimeout  time.Duration `yaml:"seed_timeout"   env:"TCGDEX_SEED_TIMEOUT"  env-default:"30s"`
	RequestsPerS int           `yaml:"requests_per_s" env:"TCGDEX_RPS"           env-default:"10"`
	Burst        int           `yaml:"burst"          env:"TCGDEX_BURST"         env-default:"5"`
}

// RateLimitConfig holds per-client request limits for sensitive routes.
type RateLimitConfig struct {
	RequestsPerS float64 `yaml:"requests_per_s" env:"RATE_LIMIT_RPS"   env-default:"5"`
	Burst        int     `yaml:"burst"          env:"RATE_LIMIT_BURST" env-default:"10"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"300"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Origins returns the configured CORS origins as a slice.
func (c CORSConfig) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads configuration from an optional YAML file and environment
// variables. Priority: ENV > YAML > defaults. The file path comes from
// CONFIG_PATH (fallback "./config.yaml"); a missing default file is not an
// error, a missing explicit one is.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.TCGdex.BaseURL == "" {
		return fmt.Errorf("TCGDEX_BASE_URL must not be empty")
	}
	if c.TCGdex.RequestsPerS <= 0 || c.TCGdex.Burst <= 0 {
		return fmt.Errorf("TCGDEX_RPS and TCGDEX_BURST must be positive")
	}
	return nil
}
