// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault decodes the encrypted account blob returned by the server
// into a [models.Vault]. The blob is a flat stream of tagged chunks; this
// package tokenizes the stream, decodes the record layouts it knows about
// and stitches attachments and custom fields onto their owning accounts.
package vault

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/mkhiriev/go-lastpass/keys"
	"github.com/mkhiriev/go-lastpass/models"
)

const (
	tagVersion    = "LPAV"
	tagAccount    = "ACCT"
	tagAttachment = "ATTA"
	tagLocal      = "LOCL"
	tagShare      = "SHAR"
	tagApp        = "AACT"
	tagField      = "ACFL"
	tagFieldAlias = "ACOF"
)

// Parse decodes a raw vault blob. Field values are decrypted with master as
// they are read; privateKey is reserved for unwrapping shared-folder keys
// and may be the zero value for vaults without shares.
func Parse(raw []byte, master keys.DecryptionKey, privateKey keys.PrivateKey) (*models.Vault, error) {
	return ParseWithLogger(raw, master, privateKey, zerolog.Nop())
}

// ParseWithLogger is Parse with debug logging of skipped and unknown chunks.
func ParseWithLogger(raw []byte, master keys.DecryptionKey, privateKey keys.PrivateKey, log zerolog.Logger) (*models.Vault, error) {
	_ = privateKey

	v := &models.Vault{}
	versionSeen := false

	r := NewChunkReader(raw)
	for {
		chunk, ok := r.Next()
		if !ok {
			break
		}

		switch chunk.Tag {
		case tagVersion:
			n, err := strconv.ParseUint(string(chunk.Payload), 10, 64)
			if err != nil {
				log.Warn().Err(err).Msg("vault version chunk is not a number, ignoring")
				continue
			}
			v.Version = n
			versionSeen = true

		case tagAccount:
			acct, err := decodeAccount(chunk.Payload, master)
			if err != nil {
				return nil, err
			}
			v.Accounts = append(v.Accounts, *acct)

		case tagAttachment:
			att, err := decodeAttachment(chunk.Payload, master)
			if err != nil {
				return nil, err
			}
			parent := v.AccountByID(att.Parent)
			if parent == nil {
				return nil, &StructuralError{
					Reason: "found an attachment for account " + string(att.Parent) + ", which doesn't exist",
				}
			}
			parent.Attachments = append(parent.Attachments, *att)

		case tagField, tagFieldAlias:
			f, err := decodeField(chunk.Payload, master)
			if err != nil {
				return nil, err
			}
			if len(v.Accounts) == 0 {
				return nil, &StructuralError{
					Reason: "found a custom field before any account",
				}
			}
			last := &v.Accounts[len(v.Accounts)-1]
			last.Fields = append(last.Fields, *f)

		case tagApp:
			app, err := decodeApp(chunk.Payload, master)
			if err != nil {
				return nil, err
			}
			v.App = app

		case tagLocal:
			v.Local = true

		case tagShare:
			return nil, ErrShareNotSupported

		default:
			log.Debug().Str("tag", chunk.Tag).Int("size", len(chunk.Payload)).Msg("skipping unknown chunk")
		}
	}

	if !versionSeen {
		return nil, &MissingFieldError{Field: "the vault version"}
	}
	return v, nil
}
