// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config loads the bvault configuration by merging values from
// environment variables, command-line flags, and an optional JSON file.
package config

// StructuredConfig is the top-level configuration container for bvault.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings.
	App App `envPrefix:"BVAULT_APP_"`

	// Storage holds configuration for the metadata database and the raw
	// ciphertext store.
	Storage Storage `envPrefix:"BVAULT_STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the BVAULT_CONFIG environment variable or the
	// -c / -config flag.
	JSONFilePath string `env:"BVAULT_CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// LogLevel selects the minimum zerolog level emitted by the CLI
	// ("debug", "info", "warn", "error"). Empty means debug.
	// Env: BVAULT_APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration for both halves of an encrypted entry:
// the durable metadata database and the raw key-value ciphertext store.
type Storage struct {
	// DB holds the metadata database connection settings.
	DB DB `envPrefix:"DB_"`

	// Vault holds the raw ciphertext store settings.
	Vault Vault `envPrefix:"VAULT_"`
}

// DB holds the metadata database connection settings.
type DB struct {
	// Driver selects the SQL driver: "sqlite3" (default) or "pgx".
	// Env: BVAULT_STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the driver-specific connection string. For sqlite3 this is a
	// file path; for pgx a postgres:// URI.
	// Env: BVAULT_STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Vault holds the raw ciphertext store settings.
type Vault struct {
	// FilePath is the JSON file the ciphertext store persists to.
	// Empty selects the in-memory store.
	// Env: BVAULT_STORAGE_VAULT_FILE_PATH
	FilePath string `env:"FILE_PATH"`
}

// GetConfig loads, merges, and validates the bvault configuration.
//
// Sources are merged in priority order: environment variables first, then
// command-line flags, then the optional JSON file referenced by either of
// the previous two.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants required to start the application.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.DB.Driver {
	case "", "sqlite3", "pgx":
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.DB.Driver == "pgx" && cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}
