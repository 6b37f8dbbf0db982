// Package config loads service configuration from config.yaml with
// environment variable overrides.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for orza-engine.
// Environment variables always override YAML values. Secrets (passwords,
// API keys, the JWT secret) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Language model configuration for intent extraction
	LLM LLMConfig `yaml:"llm"`
}

// AuthConfig holds authentication-related configuration. Exactly one of
// JWTSecret or JWKSURL must be set.
type AuthConfig struct {
	// JWTSecret enables HMAC token verification for shared-secret
	// deployments.
	JWTSecret string `yaml:"-" env:"JWT_SECRET"` // Secret - not in YAML

	// JWKSURL enables RSA token verification against an identity
	// provider's published key set.
	JWKSURL string `yaml:"jwks_url" env:"JWKS_URL" env-default:""`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"orza"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"orza_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// LLMConfig holds intent extraction model settings. Provider selects the
// client: "openai" talks to any OpenAI-compatible endpoint, "anthropic" to
// the Anthropic API. Empty provider disables natural-language questions;
// structured intents still work.
type LLMConfig struct {
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:""`
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:""`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:""`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" && c.Auth.JWKSURL == "" {
		return fmt.Errorf("either JWT_SECRET or auth.jwks_url must be configured")
	}
	if c.Auth.JWTSecret != "" && c.Auth.JWKSURL != "" {
		return fmt.Errorf("JWT_SECRET and auth.jwks_url are mutually exclusive")
	}
	if c.LLM.Provider != "" && c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required when llm.provider is set")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
