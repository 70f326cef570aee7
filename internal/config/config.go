package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config is the process configuration, read once at startup from the
// environment with an optional .env overlay for local development.
type Config struct {
	Port             string   `mapstructure:"PORT"`
	Env              string   `mapstructure:"ENV"`
	LogLevel         string   `mapstructure:"LOG_LEVEL"`
	DatabaseURL      string   `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32    `mapstructure:"DB_MIN_CONNS"`
	MigrationsDir    string   `mapstructure:"MIGRATIONS_DIR"`
	CORSOrigins      []string `mapstructure:"CORS_ORIGINS"`
	RateLimitEnabled bool     `mapstructure:"RATE_LIMIT_ENABLED"`
	RateLimitRPS     float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int      `mapstructure:"RATE_LIMIT_BURST"`
	AuthEnabled      bool     `mapstructure:"AUTH_ENABLED"`
	JWTSecret        string   `mapstructure:"JWT_SECRET"`
	JWTIssuer        string   `mapstructure:"JWT_ISSUER"`
	JWTAudience      string   `mapstructure:"JWT_AUDIENCE"`
	TLSEnabled       bool     `mapstructure:"TLS_ENABLED"`
	TLSCertFile      string   `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile       string   `mapstructure:"TLS_KEY_FILE"`
}

var defaults = map[string]interface{}{
	"PORT":               "8000",
	"ENV":                "development",
	"LOG_LEVEL":          "info",
	"DB_MAX_CONNS":       20,
	"DB_MIN_CONNS":       5,
	"MIGRATIONS_DIR":     "migrations",
	"CORS_ORIGINS":       "http://localhost:3000",
	"RATE_LIMIT_ENABLED": true,
	"RATE_LIMIT_RPS":     100,
	"RATE_LIMIT_BURST":   200,
	"AUTH_ENABLED":       true,
}

// keys lists every variable Load reads. Viper only sees environment
// variables that are bound, so each key appears here.
var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "MIGRATIONS_DIR",
	"CORS_ORIGINS",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"AUTH_ENABLED", "JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE",
	"TLS_ENABLED", "TLS_CERT_FILE", "TLS_KEY_FILE",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	// The .env overlay is optional; a missing file is not an error.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// A comma-separated CORS_ORIGINS value does not unmarshal into the
	// slice field on its own.
	if len(cfg.CORSOrigins) == 0 {
		if raw := v.GetString("CORS_ORIGINS"); raw != "" {
			cfg.CORSOrigins = strings.Split(raw, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: running in development mode; every request gets admin access")
		log.Println("WARNING: set ENV=production and JWT_SECRET before deploying")
	}

	return &cfg, nil
}

func (c *Config) IsDev() bool { return c.Env == "development" }

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Validate rejects configurations that must never reach production: an
// unknown ENV, enabled authentication without a usable signing secret, or
// TLS without its key pair.
func (c *Config) Validate() error {
	switch c.Env {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("unknown ENV %q (want development, staging, or production)", c.Env)
	}

	if c.AuthEnabled && !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf(
			"JWT_SECRET is required when AUTH_ENABLED is true and ENV=%s; set it or disable auth with AUTH_ENABLED=false",
			c.Env)
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET too short: HS256 needs at least 32 characters, got %d", len(c.JWTSecret))
	}

	if c.TLSEnabled {
		if c.TLSCertFile == "" || c.TLSKeyFile == "" {
			return fmt.Errorf("TLS_ENABLED requires both TLS_CERT_FILE and TLS_KEY_FILE")
		}
	}
	return nil
}
