// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Maktabat reporting API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// KohaDatabaseURL points at the library-management database. The
	// account behind it must be a read-only user: this service never
	// writes a single row to the Koha store.
	KohaDatabaseURL string `env:"KOHA_DATABASE_URL,required"`

	// AppDatabaseURL is the application-owned database (admin accounts).
	AppDatabaseURL string `env:"APP_DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory
	// for the application-owned database.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for admin session signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Borrower-attribute code variants. Different Koha installations file
	// the class/grade and transfer-number attributes under different codes,
	// so both are configurable lists rather than single values.
	ClassAttributeCodes []string `env:"CLASS_ATTRIBUTE_CODES" envDefault:"STD,CLASS,DAR,CLASS_STD"`
	TRAttributeCodes    []string `env:"TR_ATTRIBUTE_CODES"    envDefault:"TRNO,TRN,TR_NUMBER,TR"`

	// Reporting defaults
	DefaultExcludeCategory string        `env:"REPORT_EXCLUDE_CATEGORY" envDefault:"T-KG"`
	DefaultTopTitlesLimit  int           `env:"TOP_TITLES_LIMIT"        envDefault:"25"`
	DefaultSIPWindowDays   int           `env:"SIP_WINDOW_DAYS"         envDefault:"90"`
	DashboardLangFilter    string        `env:"DASHBOARD_LANG_FILTER"   envDefault:"ara"`
	DashboardCacheTTL      time.Duration `env:"DASHBOARD_CACHE_TTL"     envDefault:"5m"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
