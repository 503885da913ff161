// Package config loads statsbot configuration.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for statsbot.
// Configuration can come from a YAML file or environment variables; the
// environment always overrides YAML. Secrets (database password, chart API
// key) must only come from environment variables.
type Config struct {
	// BotName is the mention name commands are addressed to (@<BotName>).
	BotName string `yaml:"bot_name" env:"BOT_NAME" env-default:"statsbot"`

	Database DatabaseConfig `yaml:"database"`
	Plotly   PlotlyConfig   `yaml:"plotly"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Policy   PolicyConfig   `yaml:"policy"`
}

// DatabaseConfig holds the forum backup database connection settings.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"discourse"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"discourse"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// PlotlyConfig holds chart service credentials and endpoint.
type PlotlyConfig struct {
	Username string `yaml:"username" env:"PLOTLY_USERNAME" env-default:""`
	APIKey   string `yaml:"-" env:"PLOTLY_API_KEY"` // Secret - not in YAML
	BaseURL  string `yaml:"base_url" env:"PLOTLY_BASE_URL" env-default:"https://plot.ly"`
}

// CatalogConfig locates the query catalog document and sets its reload
// cadence.
type CatalogConfig struct {
	Path           string        `yaml:"path" env:"CATALOG_PATH" env-default:"stats.yml"`
	ReloadInterval time.Duration `yaml:"reload_interval" env:"CATALOG_RELOAD_INTERVAL" env-default:"10m"`
}

// PolicyConfig holds invocation policy knobs.
type PolicyConfig struct {
	// OverrideTrustLevel is the trust level from which callers may replace
	// default arguments with their own.
	OverrideTrustLevel int `yaml:"override_trust_level" env:"OVERRIDE_TRUST_LEVEL" env-default:"4"`

	// InvocationTimeout bounds one invocation's query and chart submission.
	InvocationTimeout time.Duration `yaml:"invocation_timeout" env:"INVOCATION_TIMEOUT" env-default:"2m"`
}

// Load reads configuration from the given YAML file with environment
// variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BotName == "" {
		return fmt.Errorf("bot_name must not be empty")
	}
	if c.Catalog.ReloadInterval <= 0 {
		return fmt.Errorf("catalog reload_interval must be positive")
	}
	if c.Policy.OverrideTrustLevel < 0 {
		return fmt.Errorf("override_trust_level must not be negative")
	}
	return nil
}
