// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package keys derives and applies the cryptographic material used by the
// LastPass protocol.
//
// Three kinds of key exist side by side:
//
//   - [DecryptionKey]: the AES-256 key derived from the master password,
//     used to decrypt almost every field in the vault;
//   - [LoginKey]: a hex credential derived from the same inputs, sent to
//     the server in place of the password and never used as a cipher key;
//   - [PrivateKey]: an RSA key unwrapped from an encrypted blob in the
//     login response, reserved for decrypting shared-item keys.
package keys

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// KeyLen is the byte length of a DecryptionKey (one SHA-256 digest).
const KeyLen = sha256.Size

// DecryptionKey is an AES-256 key for decrypting vault fields.
// It is immutable once derived.
type DecryptionKey struct {
	raw [KeyLen]byte
}

// NewDecryptionKey wraps raw key bytes in a DecryptionKey.
func NewDecryptionKey(raw [KeyLen]byte) DecryptionKey {
	return DecryptionKey{raw: raw}
}

// DecryptionKeyFromHex decodes a 64-character hex string into a
// DecryptionKey.
func DecryptionKeyFromHex(s string) (DecryptionKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return DecryptionKey{}, fmt.Errorf("%w: %v", ErrMalformedHex, err)
	}
	if len(raw) != KeyLen {
		return DecryptionKey{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(raw), KeyLen)
	}

	var key DecryptionKey
	copy(key.raw[:], raw)
	return key, nil
}

// DecryptionKeyFromBase64 decodes a standard-base64 string into a
// DecryptionKey.
func DecryptionKeyFromBase64(s string) (DecryptionKey, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return DecryptionKey{}, fmt.Errorf("%w: %v", ErrMalformedBase64, err)
	}
	if len(raw) != KeyLen {
		return DecryptionKey{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(raw), KeyLen)
	}

	var key DecryptionKey
	copy(key.raw[:], raw)
	return key, nil
}

// CalculateDecryptionKey derives the vault decryption key from the user's
// credentials. The username is lowercased before use; the password is used
// verbatim. iterations is the server-supplied PBKDF2 cost for this account.
//
// With iterations <= 1 the key is SHA-256(username || password), the scheme
// used by very old LastPass accounts. Otherwise it is
// PBKDF2-HMAC-SHA256(password, salt=username, iterations).
func CalculateDecryptionKey(username, password string, iterations int) DecryptionKey {
	username = strings.ToLower(username)

	var key DecryptionKey
	if iterations <= 1 {
		h := sha256.New()
		h.Write([]byte(username))
		h.Write([]byte(password))
		copy(key.raw[:], h.Sum(nil))
	} else {
		derived := pbkdf2.Key([]byte(password), []byte(username), iterations, KeyLen, sha256.New)
		copy(key.raw[:], derived)
	}

	return key
}

// Raw returns the raw key bytes. The returned slice is a copy.
func (k DecryptionKey) Raw() []byte {
	out := make([]byte, KeyLen)
	copy(out, k.raw[:])
	return out
}

// String implements fmt.Stringer without exposing key material.
func (k DecryptionKey) String() string {
	return "DecryptionKey(<redacted>)"
}

// Decrypt decrypts a vault ciphertext with AES-256, auto-detecting the block
// mode from the ciphertext's shape: a buffer of at least 33 bytes whose
// length is 1 mod 16 and which starts with '!' carries a 16-byte IV after
// the marker and is CBC; everything else is ECB. Both modes use PKCS#7
// padding. An empty input yields an empty output.
//
// The mode heuristic is a wire-compatibility requirement of the LastPass
// format, not a local design choice.
func (k DecryptionKey) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}

	block, err := aes.NewCipher(k.raw[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	var plaintext []byte
	if usesCBC(ciphertext) {
		iv := ciphertext[1 : 1+aes.BlockSize]
		body := ciphertext[1+aes.BlockSize:]

		plaintext = make([]byte, len(body))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, body)
	} else {
		if len(ciphertext)%aes.BlockSize != 0 {
			return nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of the block size", ErrDecryptionFailed, len(ciphertext))
		}

		plaintext = make([]byte, len(ciphertext))
		for i := 0; i < len(ciphertext); i += aes.BlockSize {
			block.Decrypt(plaintext[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
		}
	}

	return pkcs7Unpad(plaintext)
}

// DecryptBase64 undoes the service's textual encoding before decrypting.
// The input is either plain base64, or "!<base64 iv>|<base64 ciphertext>",
// in which case both halves are decoded independently and reassembled as
// '!' || iv || ciphertext so that Decrypt's CBC heuristic fires.
func (k DecryptionKey) DecryptBase64(text string) ([]byte, error) {
	raw, err := cipherUnbase64(text)
	if err != nil {
		return nil, err
	}
	return k.Decrypt(raw)
}

// usesCBC reports whether the ciphertext carries the CBC IV-marker shape.
func usesCBC(ciphertext []byte) bool {
	return len(ciphertext) >= 33 && len(ciphertext)%16 == 1 && ciphertext[0] == '!'
}

// cipherUnbase64 decodes the bang/pipe convention shared by vault fields,
// attachment keys and the wrapped private key.
func cipherUnbase64(text string) ([]byte, error) {
	if !strings.HasPrefix(text, "!") {
		raw, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBase64, err)
		}
		return raw, nil
	}

	rest, found := strings.CutPrefix(text, "!")
	ivPart, dataPart, ok := strings.Cut(rest, "|")
	if !found || !ok {
		return nil, fmt.Errorf("%w: missing '|' separator", ErrMalformedBase64)
	}

	iv, err := base64.StdEncoding.DecodeString(ivPart)
	if err != nil {
		return nil, fmt.Errorf("%w: iv: %v", ErrMalformedBase64, err)
	}
	data, err := base64.StdEncoding.DecodeString(dataPart)
	if err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrMalformedBase64, err)
	}

	out := make([]byte, 0, 1+len(iv)+len(data))
	out = append(out, '!')
	out = append(out, iv...)
	out = append(out, data...)
	return out, nil
}

// pkcs7Unpad strips PKCS#7 padding, rejecting anything malformed so a wrong
// key surfaces as ErrDecryptionFailed rather than garbage plaintext.
func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: bad padded length %d", ErrDecryptionFailed, len(data))
	}

	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding byte", ErrDecryptionFailed)
	}
	if !bytes.Equal(data[len(data)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, fmt.Errorf("%w: inconsistent padding", ErrDecryptionFailed)
	}

	return data[:len(data)-n], nil
}
