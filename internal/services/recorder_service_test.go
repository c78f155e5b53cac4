package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
	"github.com/memlife/memlife/internal/storage"
)

func newTestRecorder(t *testing.T) (*RecorderService, *AccountService) {
	t.Helper()

	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	accounts := NewAccountService(fs)
	return NewRecorderService(fs, NewCatalogService(), accounts), accounts
}

func TestRecordAnswerRequiresUser(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	err := recorder.RecordAnswer("", 1, "What is your earliest memory?", "text")
	require.Error(t, err)
	assert.True(t, apperrors.IsNoUserError(err))

	_, err = recorder.LoadUserResponses("")
	require.Error(t, err)
	assert.True(t, apperrors.IsNoUserError(err))
}

func TestRecordAnswerRequiresTopic(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	err := recorder.RecordAnswer("user-1", 1, "", "text")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestRecordAnswerRoundTrip(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	require.NoError(t, recorder.RecordAnswer("user-1", 1, "What is your earliest memory?", "I remember the garden."))

	responses, err := recorder.LoadUserResponses("user-1")
	require.NoError(t, err)

	answer, ok := responses[1].Questions["What is your earliest memory?"]
	require.True(t, ok)
	assert.Equal(t, "I remember the garden.", answer.Text)
	assert.False(t, answer.Timestamp.IsZero())
}

func TestRecordAnswerOverwrites(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	require.NoError(t, recorder.RecordAnswer("user-1", 1, "topic", "first version"))
	require.NoError(t, recorder.RecordAnswer("user-1", 1, "topic", "second version"))

	responses, err := recorder.LoadUserResponses("user-1")
	require.NoError(t, err)

	require.Len(t, responses[1].Questions, 1, "re-recording replaces, never versions")
	assert.Equal(t, "second version", responses[1].Questions["topic"].Text)
}

func TestRecordAnswerPersistenceFailure(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFileStorage(dir)
	require.NoError(t, err)

	// A regular file where the users directory belongs makes every
	// save fail at the filesystem.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users"), []byte("blocked"), 0644))

	accounts := NewAccountService(fs)
	recorder := NewRecorderService(fs, NewCatalogService(), accounts)

	err = recorder.RecordAnswer("user-1", 1, "What is your earliest memory?", "I remember the garden.")
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistenceError(err))
}

func TestRecordAnswerUnknownSession(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	err := recorder.RecordAnswer("user-1", 99, "topic", "text")
	require.Error(t, err)
	assert.True(t, apperrors.IsOutOfRangeError(err))
}

func TestRecordAnswerAdHocTopicKey(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	topic := "Describe a smell that takes you straight back to your childhood."
	require.NoError(t, recorder.RecordAnswer("user-1", 1, topic, "Fresh bread."))

	responses, err := recorder.LoadUserResponses("user-1")
	require.NoError(t, err)
	assert.Contains(t, responses[1].Questions, topic, "override prompts are stored under their literal text")
}

func TestLoadUserResponsesBootstrap(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	responses, err := recorder.LoadUserResponses("brand-new-user")
	require.NoError(t, err)

	require.Len(t, responses, 3)
	assert.Empty(t, responses[1].Questions)
	assert.Equal(t, 800, responses[1].WordTarget)
}

func TestUsersIsolated(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	require.NoError(t, recorder.RecordAnswer("user-a", 1, "topic", "alpha"))
	require.NoError(t, recorder.RecordAnswer("user-b", 1, "topic", "bravo"))

	a, err := recorder.LoadUserResponses("user-a")
	require.NoError(t, err)
	b, err := recorder.LoadUserResponses("user-b")
	require.NoError(t, err)

	assert.Equal(t, "alpha", a[1].Questions["topic"].Text)
	assert.Equal(t, "bravo", b[1].Questions["topic"].Text)
}

func TestAccountStatsUpdatedOnRecord(t *testing.T) {
	recorder, accounts := newTestRecorder(t)

	account, err := accounts.CreateAccount(models.Profile{
		FirstName: "Margaret",
		LastName:  "Hale",
		Email:     "margaret@example.com",
	}, "longenough")
	require.NoError(t, err)

	require.NoError(t, recorder.RecordAnswer(account.UserID, 1, "topic", "I remember the garden."))

	updated, err := accounts.GetAccount(account.UserID)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.TotalWords)
	assert.Equal(t, 1, updated.TotalSessions)
	assert.Equal(t, 1, updated.StreakDays)
	assert.Equal(t, time.Now().Format("2006-01-02"), updated.LastActiveDate)
}

func TestStreakTransitions(t *testing.T) {
	recorder, accounts := newTestRecorder(t)

	account, err := accounts.CreateAccount(models.Profile{
		FirstName: "John",
		LastName:  "Thornton",
		Email:     "john@example.com",
	}, "longenough")
	require.NoError(t, err)

	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	// Day one starts the streak.
	recorder.now = func() time.Time { return base }
	require.NoError(t, recorder.RecordAnswer(account.UserID, 1, "t1", "one"))
	got, _ := accounts.GetAccount(account.UserID)
	assert.Equal(t, 1, got.StreakDays)

	// Same day again: unchanged.
	require.NoError(t, recorder.RecordAnswer(account.UserID, 1, "t2", "two"))
	got, _ = accounts.GetAccount(account.UserID)
	assert.Equal(t, 1, got.StreakDays)

	// Next day extends it.
	recorder.now = func() time.Time { return base.AddDate(0, 0, 1) }
	require.NoError(t, recorder.RecordAnswer(account.UserID, 1, "t3", "three"))
	got, _ = accounts.GetAccount(account.UserID)
	assert.Equal(t, 2, got.StreakDays)

	// A gap resets to one.
	recorder.now = func() time.Time { return base.AddDate(0, 0, 5) }
	require.NoError(t, recorder.RecordAnswer(account.UserID, 1, "t4", "four"))
	got, _ = accounts.GetAccount(account.UserID)
	assert.Equal(t, 1, got.StreakDays)
}

func TestRecordAnswerWithoutAccountStillSaves(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	// No account record exists for this ID; the answer must still land.
	require.NoError(t, recorder.RecordAnswer("ghost-user", 2, "topic", "saved anyway"))

	responses, err := recorder.LoadUserResponses("ghost-user")
	require.NoError(t, err)
	assert.Equal(t, "saved anyway", responses[2].Questions["topic"].Text)
}
