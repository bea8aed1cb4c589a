package models

// Share describes a shared folder. Share chunks are present in the wire
// format but their field layout is not yet decoded; the parser surfaces a
// typed "not supported" error instead of guessing. The type is reserved so
// that completing share support will not break the API.
type Share struct {
	// ID is the share's unique identifier.
	ID ID

	// Name is the decrypted share name.
	Name string

	// Key is the share's symmetric key, unwrapped with the user's RSA
	// private key.
	Key []byte

	// ReadOnly reports whether the share was granted without write access.
	ReadOnly bool
}
