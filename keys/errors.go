package keys

import "errors"

var (
	// ErrInvalidKey signals that key or IV material had the wrong length for
	// the underlying cipher.
	ErrInvalidKey = errors.New("invalid key or IV length")

	// ErrDecryptionFailed signals that the block decrypt produced invalid
	// PKCS#7 padding, which almost always means a wrong key or corrupted
	// ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMalformedBase64 signals that a bang/pipe encoded value contained
	// invalid base64 in either half.
	ErrMalformedBase64 = errors.New("malformed base64")

	// ErrMalformedHex signals that a value expected to be hex text was not.
	ErrMalformedHex = errors.New("malformed hex")

	// ErrKeyMarkersMissing signals that a decrypted private-key payload was
	// not wrapped in the expected LastPassPrivateKey<...> markers.
	ErrKeyMarkersMissing = errors.New("private key markers missing")

	// ErrNotRSA signals that the embedded PKCS#8 key parsed successfully but
	// was not an RSA key.
	ErrNotRSA = errors.New("embedded private key is not RSA")
)
