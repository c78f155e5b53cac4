package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
	"github.com/memlife/memlife/internal/storage"
)

func newTestImages(t *testing.T) *ImageService {
	t.Helper()

	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return NewImageService(fs)
}

func TestRegisterImage(t *testing.T) {
	images := newTestImages(t)

	meta, err := images.RegisterImage("user-1", models.ImageMeta{
		OriginalFilename: "wedding.jpg",
		Description:      "Our wedding day",
		SessionID:        2,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, meta.ID)
	assert.NotEmpty(t, meta.UploadDate)

	loaded, err := images.GetImage("user-1", meta.ID)
	require.NoError(t, err)
	assert.Equal(t, "wedding.jpg", loaded.OriginalFilename)
}

func TestRegisterImageValidation(t *testing.T) {
	images := newTestImages(t)

	_, err := images.RegisterImage("", models.ImageMeta{OriginalFilename: "a.jpg"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNoUserError(err))

	_, err = images.RegisterImage("user-1", models.ImageMeta{OriginalFilename: "   "})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestListSessionImages(t *testing.T) {
	images := newTestImages(t)

	for _, m := range []models.ImageMeta{
		{OriginalFilename: "a.jpg", SessionID: 1},
		{OriginalFilename: "b.jpg", SessionID: 1},
		{OriginalFilename: "c.jpg", SessionID: 2},
	} {
		_, err := images.RegisterImage("user-1", m)
		require.NoError(t, err)
	}

	session1, err := images.ListSessionImages("user-1", 1)
	require.NoError(t, err)
	assert.Len(t, session1, 2)

	session3, err := images.ListSessionImages("user-1", 3)
	require.NoError(t, err)
	assert.Empty(t, session3)

	assert.Equal(t, 3, images.TotalUserImages("user-1"))
	assert.Equal(t, 0, images.TotalUserImages("user-2"))
}

func TestGetImageNotFound(t *testing.T) {
	images := newTestImages(t)

	_, err := images.GetImage("user-1", "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
