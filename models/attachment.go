package models

import (
	"fmt"
	"unicode/utf8"

	"github.com/mkhiriev/go-lastpass/keys"
)

// Attachment is the metadata for one file attached to an account. The file
// body itself is fetched separately using StorageKey.
type Attachment struct {
	// ID is the attachment's unique identifier. It survives re-uploads.
	ID ID

	// Parent is the identifier of the owning [Account].
	Parent ID

	// MimeType is the file's mimetype as recorded by the server
	// (e.g. "other:txt").
	MimeType string

	// StorageKey is the opaque handle the backend uses to locate the current
	// version of the file. Uploading a new version changes the storage key
	// but not the attachment ID.
	StorageKey string

	// Size is the file size in bytes.
	Size uint64

	// EncryptedFilename is the filename, encrypted with the owning account's
	// attachment key rather than the vault decryption key.
	EncryptedFilename string
}

// Filename decrypts the attachment's filename with the owning account's
// attachment key (see [Account.AttachmentKey]).
func (a *Attachment) Filename(attachmentKey keys.DecryptionKey) (string, error) {
	raw, err := attachmentKey.DecryptBase64(a.EncryptedFilename)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("attachment %s: filename is not valid UTF-8", a.ID)
	}
	return string(raw), nil
}
