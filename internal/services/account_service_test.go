package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
	"github.com/memlife/memlife/internal/storage"
)

func newTestAccounts(t *testing.T) *AccountService {
	t.Helper()

	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return NewAccountService(fs)
}

func testProfile() models.Profile {
	return models.Profile{
		FirstName: "Margaret",
		LastName:  "Hale",
		Email:     "margaret@example.com",
		Birthdate: "January 2, 1953",
	}
}

func TestCreateAccount(t *testing.T) {
	accounts := newTestAccounts(t)

	account, err := accounts.CreateAccount(testProfile(), "longenough")
	require.NoError(t, err)

	assert.NotEmpty(t, account.UserID)
	assert.Len(t, account.UserID, 12)
	assert.Equal(t, "margaret@example.com", account.Email)
	assert.NotEqual(t, "longenough", account.PasswordHash, "password is stored hashed")

	loaded, err := accounts.GetAccount(account.UserID)
	require.NoError(t, err)
	assert.Equal(t, account.UserID, loaded.UserID)
	assert.Equal(t, 1953, loaded.Profile.BirthYear())
}

func TestCreateAccountValidation(t *testing.T) {
	accounts := newTestAccounts(t)

	profile := testProfile()
	profile.Email = ""
	_, err := accounts.CreateAccount(profile, "longenough")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))

	_, err = accounts.CreateAccount(testProfile(), "short")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	accounts := newTestAccounts(t)

	_, err := accounts.CreateAccount(testProfile(), "longenough")
	require.NoError(t, err)

	// Email matching is case-insensitive.
	profile := testProfile()
	profile.Email = "MARGARET@example.com"
	_, err = accounts.CreateAccount(profile, "longenough")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestAuthenticate(t *testing.T) {
	accounts := newTestAccounts(t)

	created, err := accounts.CreateAccount(testProfile(), "longenough")
	require.NoError(t, err)

	account, err := accounts.Authenticate("margaret@example.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, account.UserID)

	_, err = accounts.Authenticate("margaret@example.com", "wrongpass")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorizedError(err))

	_, err = accounts.Authenticate("nobody@example.com", "longenough")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorizedError(err))
}

func TestTokenLifecycle(t *testing.T) {
	accounts := newTestAccounts(t)

	token := accounts.IssueToken("user-1")
	require.NotEmpty(t, token)

	userID, ok := accounts.ResolveToken(token)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)

	accounts.RevokeToken(token)
	_, ok = accounts.ResolveToken(token)
	assert.False(t, ok)

	_, ok = accounts.ResolveToken("never-issued")
	assert.False(t, ok)
}

func TestGetAccountErrors(t *testing.T) {
	accounts := newTestAccounts(t)

	_, err := accounts.GetAccount("")
	require.Error(t, err)
	assert.True(t, apperrors.IsNoUserError(err))

	_, err = accounts.GetAccount("missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
