// Package config loads store configuration from a YAML file and the
// environment.
//
// Precedence, lowest to highest: defaults, YAML file, RDFSQL_* variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/rdfsql/internal/dialect"
	"github.com/roach88/rdfsql/internal/planner"
	"github.com/roach88/rdfsql/internal/schema"
)

// DefaultURL is an on-disk SQLite database in the working directory.
const DefaultURL = "sqlite:///rdfsql.db"

// Database configures the connection.
type Database struct {
	URL           string `yaml:"url" env:"RDFSQL_DATABASE_URL"`
	MaxOpenConns  int    `yaml:"max_open_conns" env:"RDFSQL_MAX_OPEN_CONNS"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms" env:"RDFSQL_BUSY_TIMEOUT_MS"`
}

// Options converts the connection settings for the dialect layer.
func (d Database) Options() dialect.Options {
	return dialect.Options{
		MaxOpenConns: d.MaxOpenConns,
		BusyTimeout:  time.Duration(d.BusyTimeoutMS) * time.Millisecond,
	}
}

// Config is the full store configuration.
type Config struct {
	Identifier         string   `yaml:"identifier" env:"RDFSQL_IDENTIFIER"`
	Database           Database `yaml:"database"`
	StronglyTypedTerms bool     `yaml:"strongly_typed_terms" env:"RDFSQL_STRONGLY_TYPED_TERMS"`
	MaxChoices         int      `yaml:"max_choices" env:"RDFSQL_MAX_CHOICES"`
	Create             bool     `yaml:"create" env:"RDFSQL_CREATE"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Identifier: schema.DefaultIdentifier,
		Database: Database{
			URL:           DefaultURL,
			BusyTimeoutMS: 5000,
		},
		MaxChoices: planner.DefaultMaxChoices,
		Create:     true,
	}
}

// Load reads path (skipped when empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks required fields and that the URL names a supported
// dialect.
func (c *Config) Validate() error {
	if c.Identifier == "" {
		return errors.New("identifier is required")
	}
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if _, _, err := dialect.FromURL(c.Database.URL); err != nil {
		return err
	}
	if c.MaxChoices < 1 {
		return fmt.Errorf("max_choices must be positive, got %d", c.MaxChoices)
	}
	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("database.max_open_conns must not be negative, got %d", c.Database.MaxOpenConns)
	}
	if c.Database.BusyTimeoutMS < 0 {
		return fmt.Errorf("database.busy_timeout_ms must not be negative, got %d", c.Database.BusyTimeoutMS)
	}
	return nil
}
