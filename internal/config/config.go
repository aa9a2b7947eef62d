// Package config loads the console configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Pull secret source kinds
const (
	PullSecretSourceNone     = "none"
	PullSecretSourcePostgres = "postgres"
	PullSecretSourceS3       = "s3"
)

const minJWTSecretLength = 32

// Config holds the console configuration
type Config struct {
	Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
	BasePath string `yaml:"basePath" validate:"omitempty,startswith=/"`
	LogLevel string `yaml:"logLevel" validate:"required,oneof=debug info warn error"`
	// LogFormat is json in production and text for local development
	LogFormat string `yaml:"logFormat" validate:"required,oneof=json text"`

	API        APIConfig        `yaml:"api"`
	Auth       AuthConfig       `yaml:"auth"`
	Server     ServerConfig     `yaml:"server"`
	PullSecret PullSecretConfig `yaml:"pullSecret"`
}

// APIConfig points the console at the cluster-management API
type APIConfig struct {
	URL     string        `yaml:"url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"min=0"`
	// Token is sent when the request carries no user session, e.g. with
	// auth disabled against an API that still requires one
	Token string `yaml:"token"`
}

// AuthConfig configures session handling
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	JWTSecret string `yaml:"jwtSecret" validate:"required_if=Enabled true"`
	LoginURL  string `yaml:"loginURL"`
}

// ServerConfig configures the HTTP server middleware
type ServerConfig struct {
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
	RequestTimeout    time.Duration `yaml:"requestTimeout"`
	MaxBodySize       string        `yaml:"maxBodySize"`
	EnableCSRF        bool          `yaml:"enableCSRF"`
	RateLimitRequests int           `yaml:"rateLimitRequests" validate:"min=0"`
	RateLimitDuration time.Duration `yaml:"rateLimitDuration"`
}

// PullSecretConfig selects where stored pull secrets come from
type PullSecretConfig struct {
	Source      string `yaml:"source" validate:"required,oneof=none postgres s3"`
	DatabaseURL string `yaml:"databaseURL" validate:"required_if=Source postgres"`
	Bucket      string `yaml:"bucket" validate:"required_if=Source s3"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	// Remember stores the pull secret submitted with a new cluster
	Remember bool `yaml:"remember"`
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() *Config {
	return &Config{
		Port:      8081,
		BasePath:  "",
		LogLevel:  "info",
		LogFormat: "json",
		API: APIConfig{
			URL:     "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			ShutdownTimeout:   10 * time.Second,
			RequestTimeout:    30 * time.Second,
			MaxBodySize:       "256K",
			EnableCSRF:        true,
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
		},
		PullSecret: PullSecretConfig{
			Source:   PullSecretSourceNone,
			Prefix:   "pull-secrets/",
			Remember: true,
		},
	}
}

// Load reads the YAML file at path (if any) over the defaults, applies
// environment overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config YAML %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if c.Auth.Enabled && len(c.Auth.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("validate config: JWT secret must be at least %d characters", minJWTSecretLength)
	}

	if c.Server.RateLimitRequests > 0 && c.Server.RateLimitDuration <= 0 {
		return fmt.Errorf("validate config: rateLimitDuration must be positive when rateLimitRequests is set")
	}

	return nil
}

// applyEnv overrides settings from environment variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}

	str("BASE_PATH", &c.BasePath)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("API_URL", &c.API.URL)
	str("API_TOKEN", &c.API.Token)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("LOGIN_URL", &c.Auth.LoginURL)
	str("PULL_SECRET_SOURCE", &c.PullSecret.Source)
	str("DATABASE_URL", &c.PullSecret.DatabaseURL)
	str("PULL_SECRET_BUCKET", &c.PullSecret.Bucket)
	str("PULL_SECRET_PREFIX", &c.PullSecret.Prefix)
	str("AWS_REGION", &c.PullSecret.Region)

	if v, ok := lookup("ENABLE_AUTH"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ENABLE_AUTH %q: %w", v, err)
		}
		c.Auth.Enabled = enabled
	}

	if v, ok := lookup("ENABLE_CSRF"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ENABLE_CSRF %q: %w", v, err)
		}
		c.Server.EnableCSRF = enabled
	}

	c.BasePath = strings.TrimSuffix(c.BasePath, "/")
	return nil
}
