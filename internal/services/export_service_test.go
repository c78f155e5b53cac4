package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
	"github.com/memlife/memlife/internal/storage"
)

func newTestExport(t *testing.T) (*ExportService, *AccountService, *RecorderService, *ImageService) {
	t.Helper()

	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	catalog := NewCatalogService()
	accounts := NewAccountService(fs)
	recorder := NewRecorderService(fs, catalog, accounts)
	images := NewImageService(fs)

	return NewExportService(catalog, recorder, accounts, images), accounts, recorder, images
}

func TestBuildDocument(t *testing.T) {
	export, accounts, recorder, images := newTestExport(t)

	account, err := accounts.CreateAccount(models.Profile{
		FirstName: "Margaret",
		LastName:  "Hale",
		Email:     "margaret@example.com",
		Birthdate: "January 2, 1953",
	}, "longenough")
	require.NoError(t, err)

	require.NoError(t, recorder.RecordAnswer(account.UserID, 1, "What is your earliest memory?", "I remember the garden."))
	require.NoError(t, recorder.RecordAnswer(account.UserID, 1, "What was school like for you?", "Strict but fair."))
	require.NoError(t, recorder.RecordAnswer(account.UserID, 3, "What were your favourite subjects at school?", "History and art."))

	_, err = images.RegisterImage(account.UserID, models.ImageMeta{
		OriginalFilename: "school.jpg",
		SessionID:        1,
	})
	require.NoError(t, err)

	doc, err := export.BuildDocument(account.UserID)
	require.NoError(t, err)

	assert.Equal(t, account.UserID, doc.User)
	assert.Equal(t, "Margaret Hale", doc.UserName)
	assert.Equal(t, "margaret@example.com", doc.UserProfile.Email)
	assert.False(t, doc.ExportDate.IsZero())

	// Only sessions with at least one answer are exported.
	require.Len(t, doc.Stories, 2)
	assert.Contains(t, doc.Stories, "session_1")
	assert.Contains(t, doc.Stories, "session_3")
	assert.NotContains(t, doc.Stories, "session_2")

	childhood := doc.Stories["session_1"]
	assert.Equal(t, "Childhood", childhood.Title)
	assert.Len(t, childhood.Questions, 2)
	require.Len(t, childhood.Images, 1)
	assert.Equal(t, "school.jpg", childhood.Images[0].OriginalFilename)

	assert.Equal(t, 2, doc.Stats.TotalSessions)
	assert.Equal(t, 3, doc.Stats.TotalStories)
	assert.Equal(t, 1, doc.Stats.TotalImages)
}

func TestBuildDocumentEmpty(t *testing.T) {
	export, accounts, _, _ := newTestExport(t)

	account, err := accounts.CreateAccount(models.Profile{
		FirstName: "John",
		LastName:  "Thornton",
		Email:     "john@example.com",
	}, "longenough")
	require.NoError(t, err)

	doc, err := export.BuildDocument(account.UserID)
	require.NoError(t, err)

	assert.Empty(t, doc.Stories)
	assert.Equal(t, 0, doc.Stats.TotalStories)
}

func TestBuildDocumentErrors(t *testing.T) {
	export, _, _, _ := newTestExport(t)

	_, err := export.BuildDocument("")
	require.Error(t, err)
	assert.True(t, apperrors.IsNoUserError(err))

	_, err = export.BuildDocument("no-such-user")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
