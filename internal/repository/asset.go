package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/lumina/internal/models"
)

// PostgresAssetRepository stores uploaded images.
type PostgresAssetRepository struct {
	DB *sql.DB
}

// NewPostgresAssetRepository creates a repository over db.
func NewPostgresAssetRepository(db *sql.DB) *PostgresAssetRepository {
	return &PostgresAssetRepository{DB: db}
}

// SaveAsset inserts a new asset. IDs are never reused.
func (s *PostgresAssetRepository) SaveAsset(ctx context.Context, a models.Asset) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO assets (id, content_type, data, created_at)
		VALUES ($1, $2, $3, $4)
	`, a.ID, a.ContentType, a.Data, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("SaveAsset: %w", err)
	}
	return nil
}

// GetAsset fetches an asset by ID, returning models.ErrNotFound if absent.
func (s *PostgresAssetRepository) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	var a models.Asset
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, content_type, data, created_at FROM assets WHERE id = $1
	`, id).Scan(&a.ID, &a.ContentType, &a.Data, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("asset %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetAsset: %w", err)
	}
	return &a, nil
}
