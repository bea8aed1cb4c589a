// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Vault is the decrypted snapshot of everything the user stores. It is
// assembled once by the parser and immutable afterwards: every Attachment
// and Field is reachable through exactly one entry of Accounts.
type Vault struct {
	// Version is the server's change counter. It increments on every edit,
	// so a cached snapshot is current as long as the server still reports
	// the same version.
	Version uint64

	// Local reports that the snapshot carried the local marker chunk,
	// meaning it was produced from the on-disk cache without contacting
	// the server.
	Local bool

	// Accounts holds every entry in stream order.
	Accounts []Account

	// App is the most recent installed-application entry, if any.
	App *App
}

// AccountByID returns the account with the given identifier, or nil.
func (v *Vault) AccountByID(id ID) *Account {
	for i := range v.Accounts {
		if v.Accounts[i].ID == id {
			return &v.Accounts[i]
		}
	}
	return nil
}

// Attachments returns all attachments across all accounts, in stream order.
func (v *Vault) Attachments() []Attachment {
	var out []Attachment
	for i := range v.Accounts {
		out = append(out, v.Accounts[i].Attachments...)
	}
	return out
}
