// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/mkhiriev/go-lastpass/internal/config"
	"github.com/mkhiriev/go-lastpass/internal/logger"
)

// VersionPoller periodically asks the server for the current vault version
// and invokes a callback whenever it differs from the last one observed.
// The first successful poll only seeds the baseline.
type VersionPoller struct {
	source   VersionSource
	interval time.Duration
	onChange func(previous, current uint64)
	logger   *logger.Logger
}

// NewVersionPoller builds a poller that checks the vault version every
// cfg.PollInterval. onChange may be nil when only logging is wanted.
func NewVersionPoller(source VersionSource, cfg config.ClientWorkers, onChange func(previous, current uint64), log *logger.Logger) *VersionPoller {
	return &VersionPoller{
		source:   source,
		interval: cfg.PollInterval,
		onChange: onChange,
		logger:   &logger.Logger{Logger: log.With().Str("worker", "version_poller").Logger()},
	}
}

// Run starts the polling goroutine and returns immediately. Cancelling ctx
// stops the poller.
func (p *VersionPoller) Run(ctx context.Context) {
	go p.loop(ctx)
}

func (p *VersionPoller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		seeded bool
		last   uint64
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		current, err := p.source.CurrentVersion(ctx)
		if err != nil {
			p.logger.Warn().Err(err).Msg("vault version check failed")
			continue
		}

		if !seeded {
			seeded = true
			last = current
			p.logger.Debug().Uint64("version", current).Msg("vault version baseline")
			continue
		}

		if current != last {
			p.logger.Info().
				Uint64("previous", last).
				Uint64("current", current).
				Msg("vault changed on the server")
			if p.onChange != nil {
				p.onChange(last, current)
			}
			last = current
		}
	}
}
