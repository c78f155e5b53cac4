// internal/services/account_service.go
package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
	"github.com/memlife/memlife/internal/storage"
	"github.com/memlife/memlife/internal/utils"
)

const accountsDir = "accounts"

// AccountService manages account records and API session tokens.
// One JSON file per account; tokens are opaque and in-memory only.
type AccountService struct {
	storage *storage.FileStorage

	tokenMutex sync.RWMutex
	tokens     map[string]string // token -> userID
}

// NewAccountService creates the service over the shared file storage.
func NewAccountService(fs *storage.FileStorage) *AccountService {
	return &AccountService{
		storage: fs,
		tokens:  make(map[string]string),
	}
}

func accountFilename(userID string) string {
	return userID + "_account.json"
}

func emailIndexFilename(email string) string {
	// Account lookups by email go through a hashed index file so the
	// address never appears in a directory listing.
	return "email_" + utils.UserFileHash(strings.ToLower(strings.TrimSpace(email))) + ".json"
}

// GetAccount loads an account by user ID.
func (s *AccountService) GetAccount(userID string) (*models.Account, error) {
	if userID == "" {
		return nil, apperrors.NewNoUserError("no user id provided")
	}

	var account models.Account
	if err := s.storage.LoadJSON(accountsDir, accountFilename(userID), &account); err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account not found: %s", userID), err)
	}
	return &account, nil
}

func (s *AccountService) getAccountByEmail(email string) (*models.Account, error) {
	var index struct {
		UserID string `json:"user_id"`
	}
	if err := s.storage.LoadJSON(accountsDir, emailIndexFilename(email), &index); err != nil {
		return nil, apperrors.NewNotFoundError("account not found", err)
	}
	return s.GetAccount(index.UserID)
}

// SaveAccount persists an account record.
func (s *AccountService) SaveAccount(account *models.Account) error {
	if err := s.storage.SaveJSON(accountsDir, accountFilename(account.UserID), account); err != nil {
		return apperrors.NewPersistenceError("failed to save account", err)
	}
	return nil
}

// CreateAccount registers a new account. The email must be unused and
// the password at least 8 characters.
func (s *AccountService) CreateAccount(profile models.Profile, password string) (*models.Account, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" || profile.FirstName == "" || profile.LastName == "" {
		return nil, apperrors.NewValidationError("first name, last name and email are required", nil)
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if s.storage.FileExists(accountsDir, emailIndexFilename(email)) {
		return nil, apperrors.NewConflictError("an account with this email already exists", nil)
	}

	now := time.Now()
	profile.Email = email
	account := &models.Account{
		UserID:       utils.NewUserID(email, now),
		Email:        email,
		PasswordHash: utils.HashPassword(password),
		CreatedAt:    now,
		Profile:      profile,
	}

	if err := s.SaveAccount(account); err != nil {
		return nil, err
	}

	index := map[string]string{"user_id": account.UserID, "email": email}
	if err := s.storage.SaveJSON(accountsDir, emailIndexFilename(email), index); err != nil {
		return nil, apperrors.NewPersistenceError("failed to save account index", err)
	}

	return account, nil
}

// Authenticate checks credentials and returns the matching account.
func (s *AccountService) Authenticate(email, password string) (*models.Account, error) {
	account, err := s.getAccountByEmail(email)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid email or password", nil)
	}

	if utils.HashPassword(password) != account.PasswordHash {
		return nil, apperrors.NewUnauthorizedError("invalid email or password", nil)
	}

	return account, nil
}

// IssueToken creates an opaque API token for a user.
func (s *AccountService) IssueToken(userID string) string {
	token := uuid.NewString()

	s.tokenMutex.Lock()
	defer s.tokenMutex.Unlock()

	s.tokens[token] = userID
	return token
}

// ResolveToken returns the user ID for a token, if valid.
func (s *AccountService) ResolveToken(token string) (string, bool) {
	s.tokenMutex.RLock()
	defer s.tokenMutex.RUnlock()

	userID, exists := s.tokens[token]
	return userID, exists
}

// RevokeToken invalidates a token on logout.
func (s *AccountService) RevokeToken(token string) {
	s.tokenMutex.Lock()
	defer s.tokenMutex.Unlock()

	delete(s.tokens, token)
}
