// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models defines the decrypted, structured view of a LastPass vault
// snapshot and the session data needed to obtain one.
//
// All values are plain data: they are assembled once by the vault parser (or
// the transport layer, for [Session]) and never mutated afterwards.
package models

// ID is an opaque handle uniquely naming a server-side resource: an account,
// attachment, share or installed application. Equality is exact string
// comparison; the contents carry no meaning on the client.
type ID string

// String returns the identifier's raw text.
func (id ID) String() string {
	return string(id)
}
