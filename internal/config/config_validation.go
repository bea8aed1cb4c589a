// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final [ClientConfig] satisfies the invariants
// the runtime depends on.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *ClientConfig) validate() error {
	if cfg.App.Username == "" || cfg.App.Host == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.PollInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
