package models

import (
	"net/url"

	"github.com/mkhiriev/go-lastpass/keys"
)

// Account is a single vault entry: a password, a secure note, an address and
// so on. String fields arrive decrypted; timestamps are kept as the server's
// decimal strings and never reformatted.
type Account struct {
	// ID is the entry's unique identifier.
	ID ID

	// Name is the decrypted display name.
	Name string

	// Group is the decrypted folder path, backslash-separated
	// (e.g. `Some Folder\Nested`). Empty for top-level entries.
	Group string

	// URL is the entry's URL as stored by the server. Secure notes and
	// folders use pseudo-URLs such as "http://sn" and "http://group".
	URL string

	// Note is the decrypted free-form note body.
	Note string

	// NoteType classifies structured notes (e.g. "Address", "Generic").
	// Empty for ordinary passwords.
	NoteType string

	// Favourite reports whether the user starred this entry.
	Favourite bool

	// Username is the decrypted login name.
	Username string

	// Password is the decrypted password.
	Password string

	// PasswordProtected reports whether the UI should re-prompt for the
	// master password before revealing this entry.
	PasswordProtected bool

	// EncryptedAttachmentKey is the still-encrypted per-account key guarding
	// this entry's attachments. Decrypt it with [Account.AttachmentKey].
	EncryptedAttachmentKey string

	// AttachmentPresent reports whether the server holds attachments for
	// this entry.
	AttachmentPresent bool

	// LastTouch is the server's decimal timestamp of the last use.
	LastTouch string

	// LastModified is the server's decimal timestamp of the last edit.
	LastModified string

	// Attachments lists this entry's attachment metadata, in stream order.
	Attachments []Attachment

	// Fields lists the entry's custom fields, in stream order. Often empty.
	Fields []Field
}

// ParsedURL parses the entry's URL. LastPass assumes "http" when no scheme
// was stored, so pseudo-URLs like "http://sn" parse cleanly too.
func (a *Account) ParsedURL() (*url.URL, error) {
	return url.Parse(a.URL)
}

// AttachmentKey decrypts the per-account attachment key with the vault
// decryption key. The result decrypts only this account's attachment
// filenames and payloads, never other vault fields.
func (a *Account) AttachmentKey(decryptionKey keys.DecryptionKey) (keys.DecryptionKey, error) {
	rawHex, err := decryptionKey.DecryptBase64(a.EncryptedAttachmentKey)
	if err != nil {
		return keys.DecryptionKey{}, err
	}
	return keys.DecryptionKeyFromHex(string(rawHex))
}
