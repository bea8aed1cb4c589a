// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists downloaded vault snapshots in a local SQLite
// database so the vault stays readable offline. Blobs are stored exactly as
// the server sent them, still encrypted; nothing in this package ever sees
// plaintext.
package store

import (
	"context"

	"github.com/mkhiriev/go-lastpass/models"
)

// SnapshotStore is the local cache of encrypted vault snapshots, keyed by
// username. One snapshot per user; saving replaces the previous one.
type SnapshotStore interface {
	// SaveSnapshot inserts or replaces the snapshot for snap.Username.
	SaveSnapshot(ctx context.Context, snap models.Snapshot) error

	// GetSnapshot returns the cached snapshot for the username, or
	// [ErrSnapshotNotFound].
	GetSnapshot(ctx context.Context, username string) (models.Snapshot, error)

	// DeleteSnapshot removes the cached snapshot for the username. Removing
	// a snapshot that does not exist is not an error.
	DeleteSnapshot(ctx context.Context, username string) error
}
