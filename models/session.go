package models

// Session holds the server-side state of an authenticated login. All fields
// come straight from the login response.
type Session struct {
	// UID is the user's numeric identifier.
	UID string

	// Token is the opaque, base64-encoded request token attached to
	// privileged calls (attachment fetch, logout).
	Token string

	// EncodedPrivateKey is the user's RSA private key, still encrypted with
	// the vault decryption key. See keys.PrivateKeyFromEncryptedDER.
	EncodedPrivateKey string

	// SessionID is the PHP session identifier carried by the cookie jar.
	SessionID string
}
