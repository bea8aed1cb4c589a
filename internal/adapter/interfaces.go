// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for talking to the LastPass
// servers.
//
// The primary abstraction is [ServerAdapter], which decouples the session
// layer from the underlying protocol. The package ships an HTTP
// implementation ([NewHTTPServerAdapter]) speaking the classic form-encoded
// endpoints (login.php, getaccts.php and friends).
//
// Error values defined in errors.go are produced from the server's XML error
// responses so that callers can use [errors.Is] and [errors.As] for
// transport-agnostic error handling.
package adapter

import (
	"context"

	"github.com/mkhiriev/go-lastpass/keys"
	"github.com/mkhiriev/go-lastpass/models"
)

// LoginRequest carries everything the login endpoint needs.
type LoginRequest struct {
	// Username is the account email. It is lowercased before sending.
	Username string

	// LoginKey is the derived login hash; the master password itself is
	// never sent.
	LoginKey keys.LoginKey

	// Iterations is the PBKDF2 iteration count the login key was derived
	// with. The server rejects the login with the correct count when it
	// disagrees.
	Iterations int

	// TrustedID identifies this device to skip repeated two-factor prompts.
	// Optional.
	TrustedID string
}

// ServerAdapter defines transport-agnostic communication with the server.
// Implementations are responsible for serialisation, session cookie
// management, and mapping transport-level failures to the error types
// defined in this package.
type ServerAdapter interface {
	// Iterations fetches the PBKDF2 iteration count configured for the
	// given username. Needed before key derivation can start.
	Iterations(ctx context.Context, username string) (int, error)

	// Login authenticates with the pre-derived login key and returns the
	// server-side session state. Two-factor prompts surface as
	// *TwoFactorError, a stale iteration count as *IterationsMismatchError.
	Login(ctx context.Context, req LoginRequest) (models.Session, error)

	// VaultVersion returns the server's change counter for the logged-in
	// account without downloading the vault itself.
	VaultVersion(ctx context.Context, session models.Session) (uint64, error)

	// FetchVault downloads the raw encrypted vault blob.
	FetchVault(ctx context.Context, session models.Session) ([]byte, error)

	// LoadAttachment downloads one attachment body by its storage key. The
	// returned bytes are still encrypted with the owning account's
	// attachment key.
	LoadAttachment(ctx context.Context, session models.Session, storageKey string) ([]byte, error)

	// Logout invalidates the session on the server.
	Logout(ctx context.Context, session models.Session) error
}
