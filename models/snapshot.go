package models

import "time"

// Snapshot is one cached copy of a user's encrypted vault blob. The blob is
// stored exactly as the server sent it, still encrypted; caching it lets the
// client reopen the vault offline with nothing but the master password.
type Snapshot struct {
	// Username is the account email the snapshot belongs to.
	Username string

	// Iterations is the PBKDF2 iteration count in effect when the snapshot
	// was fetched. Needed to re-derive the decryption key offline.
	Iterations int

	// Version is the server's change counter at fetch time.
	Version uint64

	// Blob is the raw encrypted vault stream.
	Blob []byte

	// FetchedAt records when the snapshot was downloaded.
	FetchedAt time.Time
}
