package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/lumina/internal/models"
)

func setupAssetMock(t *testing.T) (*PostgresAssetRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresAssetRepository(db), mock
}

func TestSaveAsset(t *testing.T) {
	repo, mock := setupAssetMock(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := models.Asset{ID: "id-1", ContentType: "image/png", Data: []byte{1, 2, 3}, CreatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO assets (id, content_type, data, created_at)`)).
		WithArgs(a.ID, a.ContentType, a.Data, a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO assets").WillReturnError(errors.New("duplicate key"))

	require.NoError(t, repo.SaveAsset(context.Background(), a))
	err := repo.SaveAsset(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SaveAsset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAsset(t *testing.T) {
	repo, mock := setupAssetMock(t)
	now := time.Now().UTC()
	q := regexp.QuoteMeta(`SELECT id, content_type, data, created_at FROM assets WHERE id = $1`)

	mock.ExpectQuery(q).WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "content_type", "data", "created_at"}).
			AddRow("id-1", "image/png", []byte{9}, now))
	mock.ExpectQuery(q).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "content_type", "data", "created_at"}))
	mock.ExpectQuery(q).WithArgs("id-2").WillReturnError(errors.New("conn reset"))

	got, err := repo.GetAsset(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, &models.Asset{ID: "id-1", ContentType: "image/png", Data: []byte{9}, CreatedAt: now}, got)

	_, err = repo.GetAsset(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.GetAsset(context.Background(), "id-2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
