package service

import "errors"

var (
	// ErrSessionNotOpened is returned by operations that need a logged-in
	// session before Open succeeded.
	ErrSessionNotOpened = errors.New("session is not opened")

	// ErrUnwrapPrivateKey is returned when the login response carried an
	// encrypted private key that could not be decoded with the derived
	// decryption key.
	ErrUnwrapPrivateKey = errors.New("unable to unwrap private key")
)
