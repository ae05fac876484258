package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/lumina/internal/models"
)

var (
	// ErrEmptyAsset is returned for uploads with no bytes.
	ErrEmptyAsset = errors.New("empty asset")
	// ErrUnsupportedType is returned for non-image content types.
	ErrUnsupportedType = errors.New("unsupported content type")
)

// AssetRepository persists uploaded assets.
type AssetRepository interface {
	SaveAsset(ctx context.Context, a models.Asset) error
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
}

// AssetService stores and serves uploaded images.
type AssetService struct {
	repo AssetRepository
	now  func() time.Time
}

// NewAssetService constructs an AssetService over repo.
func NewAssetService(repo AssetRepository) *AssetService {
	return &AssetService{repo: repo, now: time.Now}
}

// Store saves data under a fresh ID. contentType must be an image type.
func (s *AssetService) Store(ctx context.Context, contentType string, data []byte) (*models.Asset, error) {
	if len(data) == 0 {
		return nil, ErrEmptyAsset
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedType
	}
	a := models.Asset{
		ID:          uuid.NewString(),
		ContentType: contentType,
		Data:        data,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.SaveAsset(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Get returns the asset with id, or an error wrapping models.ErrNotFound.
func (s *AssetService) Get(ctx context.Context, id string) (*models.Asset, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	return s.repo.GetAsset(ctx, id)
}
