// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service wires the transport, key derivation, parsing and local
// cache into one session-oriented API. It owns the decryption key for the
// lifetime of a session and never hands it out.
package service

import (
	"context"

	"github.com/mkhiriev/go-lastpass/models"
)

// SessionService is the high-level client session. The usual flow is Open,
// then any number of Vault / CurrentVersion / AttachmentContent calls, then
// Close. OfflineVault works without Open as long as a cached snapshot
// exists.
type SessionService interface {
	// Open looks up the account's iteration count, derives the login and
	// decryption keys from the master password, authenticates, and unwraps
	// the RSA private key from the login response. A stale iteration count
	// reported by the server is retried transparently.
	Open(ctx context.Context, password string) error

	// Vault downloads, caches and decodes the current vault.
	Vault(ctx context.Context) (*models.Vault, error)

	// OfflineVault decodes the most recently cached vault blob without
	// contacting the server. The returned vault has Local set. Returns
	// store.ErrSnapshotNotFound when nothing was cached yet.
	OfflineVault(ctx context.Context, password string) (*models.Vault, error)

	// CurrentVersion asks the server for the vault's change counter. Useful
	// for cheap "did anything change" polls.
	CurrentVersion(ctx context.Context) (uint64, error)

	// AttachmentContent downloads and decrypts one attachment, returning
	// the decrypted filename and file body.
	AttachmentContent(ctx context.Context, account *models.Account, att models.Attachment) (string, []byte, error)

	// Close invalidates the session on the server and forgets the keys.
	Close(ctx context.Context) error
}
