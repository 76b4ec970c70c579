// Package config loads server settings from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file. Environment variables already set take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environments accepted in ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DevJWTSecret signs tokens in development when JWT_SECRET is unset.
const DevJWTSecret = "splittrip-dev-secret"

// Config holds all settings for the SplitTrip server.
type Config struct {
	Port           int           `mapstructure:"PORT"`
	DBPath         string        `mapstructure:"DB_PATH"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	AMQPURL        string        `mapstructure:"AMQP_URL"`
	AMQPExchange   string        `mapstructure:"AMQP_EXCHANGE"`
	ReportCacheTTL time.Duration `mapstructure:"REPORT_CACHE_TTL"`
	CORSOrigin     string        `mapstructure:"CORS_ORIGIN"`
	Env            string        `mapstructure:"ENV"`
}

var defaults = map[string]any{
	"PORT":             8080,
	"DB_PATH":          "./data/splittrip.db",
	"JWT_SECRET":       "",
	"TOKEN_TTL":        "24h",
	"LOG_LEVEL":        "info",
	"AMQP_URL":         "",
	"AMQP_EXCHANGE":    "splittrip",
	"REPORT_CACHE_TTL": "30s",
	"CORS_ORIGIN":      "*",
	"ENV":              EnvDevelopment,
}

// Load reads configuration. envFile is an optional dotenv file; a missing
// file is not an error. The result is validated before it is returned.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.AMQPURL = strings.TrimSpace(c.AMQPURL)
	if c.JWTSecret == "" && c.IsDevelopment() {
		c.JWTSecret = DevJWTSecret
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// EventsEnabled reports whether events should be published to AMQP.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	} else if !c.IsDevelopment() && c.JWTSecret == DevJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must not use the development secret"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}
	if c.EventsEnabled() && strings.TrimSpace(c.AMQPExchange) == "" {
		errs = append(errs, errors.New("AMQP_EXCHANGE is required when AMQP_URL is set"))
	}
	if c.ReportCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("REPORT_CACHE_TTL must not be negative, got %s", c.ReportCacheTTL))
	}
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be development or production, got %q", c.Env))
	}
	return errors.Join(errs...)
}
