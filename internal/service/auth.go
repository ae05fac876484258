// Package service provides the edge service's business logic, delegating
// persistence to repository interfaces.
package service

import (
	"context"
	"errors"
)

// ErrEmptyPassword is returned when setup is attempted with no password.
var ErrEmptyPassword = errors.New("password must not be empty")

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// CredentialExists reports whether a credential is stored.
	CredentialExists(ctx context.Context) (bool, error)
	// GetPassword returns the stored password and whether one is set.
	GetPassword(ctx context.Context) (string, bool, error)
	// SetPassword stores password, replacing any previous credential.
	SetPassword(ctx context.Context, password string) error
}

// Service implements the single-credential operations by delegating
// to an AuthRepository.
type Service struct {
	repo AuthRepository
}

// NewAuthService constructs a new Service using the provided repository.
func NewAuthService(repo AuthRepository) *Service {
	return &Service{repo: repo}
}

// IsSetup reports whether the admin password has been set.
func (s *Service) IsSetup(ctx context.Context) (bool, error) {
	return s.repo.CredentialExists(ctx)
}

// Setup stores password as the admin credential. Running it again
// overwrites the previous password.
func (s *Service) Setup(ctx context.Context, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return s.repo.SetPassword(ctx, password)
}

// Verify compares password with the stored credential. It is false when no
// credential is set.
func (s *Service) Verify(ctx context.Context, password string) (bool, error) {
	stored, ok, err := s.repo.GetPassword(ctx)
	if err != nil || !ok {
		return false, err
	}
	return stored == password, nil
}
