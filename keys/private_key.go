package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Markers wrapping the hex DER payload inside the decrypted private-key
// blob. Fixed by the wire format.
const (
	privateKeyPrefix = "LastPassPrivateKey<"
	privateKeySuffix = ">LastPassPrivateKey"
)

// PrivateKey is the RSA key used to decrypt shared-item keys. A zero
// PrivateKey is valid and means the account has no key material yet.
type PrivateKey struct {
	key *rsa.PrivateKey
}

// NewPrivateKey wraps an already-parsed RSA key.
func NewPrivateKey(key *rsa.PrivateKey) PrivateKey {
	return PrivateKey{key: key}
}

// PrivateKeyFromEncryptedDER unwraps the encrypted private key returned by
// the login endpoint.
//
// The blob is decrypted with the vault decryption key: values starting with
// '!' use the bang/pipe encoding; anything else is hex, and a synthetic
// '!' marker plus the first 16 bytes of the decryption key stand in for the
// IV, a compatibility quirk of older server responses that omitted the
// real one. The plaintext must be UTF-8 wrapped in
// LastPassPrivateKey<...>LastPassPrivateKey markers; the inner payload is
// hex, containing a PKCS#8 DER RSA private key.
//
// Each failure mode is a distinct error kind ([ErrDecryptionFailed],
// [ErrMalformedHex], [ErrKeyMarkersMissing], ...) so callers can tell a
// wrong password from corrupted data.
func PrivateKeyFromEncryptedDER(encrypted string, decryptionKey DecryptionKey) (PrivateKey, error) {
	var ciphertext []byte
	if strings.HasPrefix(encrypted, "!") {
		raw, err := cipherUnbase64(encrypted)
		if err != nil {
			return PrivateKey{}, err
		}
		ciphertext = raw
	} else {
		raw, err := hex.DecodeString(encrypted)
		if err != nil {
			return PrivateKey{}, fmt.Errorf("%w: %v", ErrMalformedHex, err)
		}

		ciphertext = make([]byte, 0, 1+16+len(raw))
		ciphertext = append(ciphertext, '!')
		ciphertext = append(ciphertext, decryptionKey.raw[:16]...)
		ciphertext = append(ciphertext, raw...)
	}

	plaintext, err := decryptionKey.Decrypt(ciphertext)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("decrypt private key blob: %w", err)
	}
	if !utf8.Valid(plaintext) {
		return PrivateKey{}, fmt.Errorf("private key blob is not valid UTF-8")
	}

	text := string(plaintext)
	if !strings.HasPrefix(text, privateKeyPrefix) || !strings.HasSuffix(text, privateKeySuffix) {
		return PrivateKey{}, ErrKeyMarkersMissing
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(text, privateKeyPrefix), privateKeySuffix)

	der, err := hex.DecodeString(inner)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("%w: key payload: %v", ErrMalformedHex, err)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("parse PKCS#8 private key: %w", err)
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return PrivateKey{}, ErrNotRSA
	}

	return PrivateKey{key: rsaKey}, nil
}

// IsZero reports whether no key material is present.
func (p PrivateKey) IsZero() bool {
	return p.key == nil
}

// Decrypt performs RSA-OAEP decryption with SHA-1 as the hash function.
// SHA-1 is required for wire compatibility with the server's share-key
// wrapping. An empty input yields an empty output.
func (p PrivateKey) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}
	if p.key == nil {
		return nil, fmt.Errorf("%w: no private key material", ErrInvalidKey)
	}

	plaintext, err := rsa.DecryptOAEP(sha1.New(), rand.Reader, p.key, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("rsa decrypt: %w", err)
	}
	return plaintext, nil
}

// String implements fmt.Stringer without exposing key material.
func (p PrivateKey) String() string {
	if p.key == nil {
		return "PrivateKey(<none>)"
	}
	return "PrivateKey(<redacted>)"
}
