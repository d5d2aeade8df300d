// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config is the process-wide configuration. The pipeline itself receives
// an immutable engine.Config derived from it; nothing here is consulted
// as ambient state by the core.
type Config struct {
	// DocumentsDir is the directory holding downloaded UBL XML files.
	DocumentsDir string `envconfig:"DOCUMENTS_DIR" default:"dlds"`

	// Precision is the currency minor-unit precision in decimal places.
	Precision int32 `envconfig:"PRECISION" default:"2"`

	// TolerancePerLine is the acceptable reconciliation residual per line.
	TolerancePerLine string `envconfig:"TOLERANCE_PER_LINE" default:"0.01"`

	// Parallelism bounds concurrent document processing.
	Parallelism int `envconfig:"PARALLELISM" default:"4"`

	// ServerAddress is the listen address for the HTTP API.
	ServerAddress string `envconfig:"SERVER_ADDRESS" default:":8080"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
}

// Load reads configuration from the environment, honouring a local .env
// file when present.
func Load() (*Config, error) {
	// A missing .env file is fine; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("INVSUM", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Precision < 0 || c.Precision > 8 {
		return fmt.Errorf("INVSUM_PRECISION must be between 0 and 8, got %d", c.Precision)
	}
	tolerance, err := decimal.NewFromString(c.TolerancePerLine)
	if err != nil {
		return fmt.Errorf("INVSUM_TOLERANCE_PER_LINE is not a decimal: %w", err)
	}
	if tolerance.IsNegative() {
		return fmt.Errorf("INVSUM_TOLERANCE_PER_LINE must not be negative")
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("INVSUM_PARALLELISM must be at least 1")
	}
	return nil
}

// Tolerance returns the per-line tolerance as a decimal. Load has already
// validated the value.
func (c *Config) Tolerance() decimal.Decimal {
	return decimal.RequireFromString(c.TolerancePerLine)
}
