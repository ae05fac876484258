// Package models defines the core data structures shared by the admin gate,
// its two credential backends and the remote edge service.
package models

import (
	"errors"
	"time"
)

// Credential is the single shared administrative password.
// It is stored and compared in clear form.
type Credential struct {
	// Password is the opaque password string.
	Password string `json:"password"`
}

// AuthMode is derived each time the gate activates from whether the active
// backend already holds a credential.
type AuthMode string

const (
	// SetupRequired means no credential exists yet in the active backend.
	SetupRequired AuthMode = "setup_required"
	// LoginRequired means a credential exists and must be verified.
	LoginRequired AuthMode = "login_required"
)

// ModeFor returns the AuthMode implied by credential existence.
func ModeFor(exists bool) AuthMode {
	if exists {
		return LoginRequired
	}
	return SetupRequired
}

// BackendKind identifies which credential backend a running instance uses.
type BackendKind string

const (
	// RemoteBackend delegates to the remote edge service.
	RemoteBackend BackendKind = "remote"
	// LocalBackend keeps the credential in on-device storage.
	LocalBackend BackendKind = "local"
)

// Label returns the short human description shown next to the gate.
func (k BackendKind) Label() string {
	if k == RemoteBackend {
		return "cloud sync enabled (password persisted remotely)"
	}
	return "local mode (this device only)"
}

// Asset is an uploaded image held by the remote edge service.
type Asset struct {
	// ID is the generated identifier used in the public URL.
	ID string
	// ContentType is the detected mime type of Data.
	ContentType string
	// Data holds the raw image bytes.
	Data []byte
	// CreatedAt is the upload time.
	CreatedAt time.Time
}

// ErrNotFound is returned by stores when a requested record does not exist.
var ErrNotFound = errors.New("not found")
