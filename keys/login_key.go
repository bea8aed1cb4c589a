package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// LoginKeyLen is the character length of a LoginKey's hex form: two hex
// digits per byte of one SHA-256 digest.
const LoginKeyLen = KeyLen * 2

// LoginKey is the hex-encoded credential sent to the server in place of the
// master password. It is derived from the same inputs as [DecryptionKey] but
// by a different schedule, so knowing one does not reveal the other.
type LoginKey struct {
	hex string
}

// CalculateLoginKey derives the login hash from the user's credentials.
// The username is lowercased before use; iterations is the same
// server-supplied cost factor used for the decryption key.
//
// With iterations <= 1 the key is a double SHA-256: the inner digest of
// username || password is hex-encoded and hashed again together with the
// password. Otherwise two PBKDF2-HMAC-SHA256 passes run: the first matches
// the decryption-key derivation, the second feeds that output back in as
// the password with the real password as salt, for a single iteration.
func CalculateLoginKey(username, password string, iterations int) LoginKey {
	username = strings.ToLower(username)

	if iterations <= 1 {
		first := sha256.New()
		first.Write([]byte(username))
		first.Write([]byte(password))
		firstHex := hex.EncodeToString(first.Sum(nil))

		second := sha256.New()
		second.Write([]byte(firstHex))
		second.Write([]byte(password))
		return LoginKey{hex: hex.EncodeToString(second.Sum(nil))}
	}

	first := pbkdf2.Key([]byte(password), []byte(username), iterations, KeyLen, sha256.New)
	second := pbkdf2.Key(first, []byte(password), 1, KeyLen, sha256.New)
	return LoginKey{hex: hex.EncodeToString(second)}
}

// Hex returns the key's hex-encoded form, always LoginKeyLen characters.
func (k LoginKey) Hex() string {
	return k.hex
}

// String implements fmt.Stringer without exposing the credential.
func (k LoginKey) String() string {
	return "LoginKey(<redacted>)"
}
