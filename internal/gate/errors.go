package gate

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned while a check or a submission is outstanding.
	ErrBusy = errors.New("gate busy")
	// ErrClosed is returned when submitting to a gate that is not open.
	ErrClosed = errors.New("gate closed")
	// ErrAuthenticated is returned for submissions after a successful one.
	ErrAuthenticated = errors.New("already authenticated")
	// ErrStale is returned when the gate was closed or reopened while the
	// backend call was in flight; its result has been discarded.
	ErrStale = errors.New("stale submission discarded")
)

// ValidationError rejects input before any backend call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthError reports a password that did not verify.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }

// SetupError reports a failed create-credential call.
type SetupError struct {
	Msg string
	Err error
}

func (e *SetupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *SetupError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsAuth reports whether err is or wraps an *AuthError.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsSetup reports whether err is or wraps a *SetupError.
func IsSetup(err error) bool {
	var target *SetupError
	return errors.As(err, &target)
}
