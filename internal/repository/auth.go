// Package repository provides PostgreSQL persistence for the edge service:
// the single admin credential and uploaded assets.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresAuthRepository stores the admin credential in a single-row table.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a repository over db.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// CredentialExists reports whether the credential row is present.
func (s *PostgresAuthRepository) CredentialExists(ctx context.Context) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM admin_credential WHERE id = 1)`,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("CredentialExists: %w", err)
	}
	return exists, nil
}

// GetPassword returns the stored password and whether one is set.
func (s *PostgresAuthRepository) GetPassword(ctx context.Context) (string, bool, error) {
	var password string
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT password FROM admin_credential WHERE id = 1`,
	).Scan(&password)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("GetPassword: %w", err)
	}
	return password, true, nil
}

// SetPassword writes the credential, overwriting any previous one.
func (s *PostgresAuthRepository) SetPassword(ctx context.Context, password string) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO admin_credential (id, password) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET password = EXCLUDED.password, updated_at = now()`,
		password,
	)
	if err != nil {
		return fmt.Errorf("SetPassword: %w", err)
	}
	return nil
}
