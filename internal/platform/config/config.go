// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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
  - DI-Friendly: Passed to core components (DB, Redis, Storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Galleria API server and worker.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) — backs the background job queue.
	RedisURL string `env:"REDIS_URL,required"`

	// MediaRoot is the filesystem directory under which all media artifacts
	// (pictures/, previews/, downloads/) are stored.
	MediaRoot string `env:"MEDIA_ROOT" envDefault:"./media"`

	// MediaBaseURL is the public URL prefix that maps onto MediaRoot.
	MediaBaseURL string `env:"MEDIA_BASE_URL" envDefault:"/media"`

	// FrontendURL is the origin of the public gallery frontend, allowed to
	// call the API cross-origin.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// UseQueue defers media imports to the background worker when true.
	// When false, imports run synchronously inside the request.
	UseQueue bool `env:"USE_QUEUE" envDefault:"false"`

	// ExtraOrigins is a comma-separated list of additional origins allowed
	// to call the API cross-origin, on top of FrontendURL.
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
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

// AllowedOrigins returns the origins permitted to call the API cross-origin:
// the frontend plus any EXTRA_ORIGINS entries.
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0, 4)
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
