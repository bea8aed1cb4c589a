// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It aggregates
// all sub-configurations and is populated by merging values from environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds account-level settings such as the server host and the
	// username to log in with.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local snapshot cache.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds settings for the outbound HTTP transport.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds account-level configuration values.
type App struct {
	// Host is the server to talk to, without a scheme (e.g. "lastpass.com"
	// or "lastpass.eu").
	// Env: APP_HOST
	Host string `env:"HOST"`

	// Username is the account email used for login and key derivation.
	// Env: APP_USERNAME
	Username string `env:"USERNAME"`

	// TrustedIDFile is the path of the file holding this device's trusted
	// identifier. A fresh identifier is generated and written there on first
	// use.
	// Env: APP_TRUSTED_ID_FILE
	TrustedIDFile string `env:"TRUSTED_ID_FILE"`

	// Version is the semantic version string of the running client
	// (e.g. "1.2.3").
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the local persistence backends.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local snapshot database.
type DB struct {
	// DSN is the SQLite data source name, normally just a file path
	// (e.g. "~/.local/share/vault/snapshots.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds settings for the outbound HTTP transport layer.
type Adapter struct {
	// RequestTimeout is the maximum duration allowed for a single outbound
	// request before the client cancels it (e.g. "30s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// PollInterval defines how often the version poller asks the server
	// whether the vault changed.
	// Env: WORKERS_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
