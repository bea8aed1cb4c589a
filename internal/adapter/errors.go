package adapter

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when the server no longer recognizes the
// session cookie or token.
var ErrSessionExpired = errors.New("session expired or invalid")

// LoginError is the server's generic login rejection, carrying the
// human-readable message and the machine-readable cause attribute from the
// XML error element.
type LoginError struct {
	Message string
	Cause   string
}

func (e *LoginError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("login failed: %s", e.Message)
	}
	return fmt.Sprintf("login failed: %s", e.Cause)
}

// TwoFactorError reports that the account requires an out-of-band approval
// or a one-time code before the login can complete. Method is the cause
// attribute naming the mechanism (e.g. "googleauthrequired",
// "outofbandrequired").
type TwoFactorError struct {
	Method  string
	Message string
}

func (e *TwoFactorError) Error() string {
	return fmt.Sprintf("two-factor approval required (%s)", e.Method)
}

// IterationsMismatchError reports that the login key was derived with the
// wrong iteration count. Retry the derivation and login with Correct.
type IterationsMismatchError struct {
	Correct int
}

func (e *IterationsMismatchError) Error() string {
	return fmt.Sprintf("login key derived with the wrong iteration count, server expects %d", e.Correct)
}
