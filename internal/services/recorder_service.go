// internal/services/recorder_service.go
package services

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
	"github.com/memlife/memlife/internal/storage"
	"github.com/memlife/memlife/internal/utils"
)

const usersDir = "users"

// wordPattern is the single word-counting rule. Progress bars, streak
// gating and aggregate stats must all agree on it, so every call site
// goes through WordCount.
var wordPattern = regexp.MustCompile(`\w+`)

// WordCount counts word tokens in text.
func WordCount(text string) int {
	return len(wordPattern.FindAllString(text, -1))
}

// RecorderService makes answers durable and keeps the per-account
// aggregate counters consistent with them.
type RecorderService struct {
	storage  *storage.FileStorage
	catalog  *CatalogService
	accounts *AccountService
	now      func() time.Time

	// Serializes read-modify-write cycles per user document.
	userLocks sync.Map // userID -> *sync.Mutex
}

// NewRecorderService creates the recorder over the shared storage.
func NewRecorderService(fs *storage.FileStorage, catalog *CatalogService, accounts *AccountService) *RecorderService {
	return &RecorderService{
		storage:  fs,
		catalog:  catalog,
		accounts: accounts,
		now:      time.Now,
	}
}

func (s *RecorderService) userLock(userID string) *sync.Mutex {
	value, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return value.(*sync.Mutex)
}

func userDataFilename(userID string) string {
	return "user_data_" + utils.UserFileHash(userID) + ".json"
}

// LoadUserResponses reads a user's response document, returning the
// bootstrap empty progress map when none exists yet.
func (s *RecorderService) LoadUserResponses(userID string) (map[int]models.SessionProgress, error) {
	if userID == "" {
		return nil, apperrors.NewNoUserError("no user id provided")
	}

	responses := s.catalog.EmptyProgress()

	if !s.storage.FileExists(usersDir, userDataFilename(userID)) {
		return responses, nil
	}

	var data models.UserData
	if err := s.storage.LoadJSON(usersDir, userDataFilename(userID), &data); err != nil {
		return nil, apperrors.NewPersistenceError("failed to load user responses", err)
	}

	// Merge saved answers over the bootstrap map so sessions added to
	// the catalog after the file was written still appear.
	for sessionID, saved := range data.Responses {
		progress, ok := responses[sessionID]
		if !ok {
			responses[sessionID] = saved
			continue
		}
		if saved.Questions != nil {
			progress.Questions = saved.Questions
		}
		if saved.WordTarget > 0 {
			progress.WordTarget = saved.WordTarget
		}
		progress.Summary = saved.Summary
		progress.Completed = saved.Completed
		responses[sessionID] = progress
	}

	return responses, nil
}

// SaveUserResponses writes the full per-user response map.
func (s *RecorderService) SaveUserResponses(userID string, responses map[int]models.SessionProgress) error {
	if userID == "" {
		return apperrors.NewNoUserError("no user id provided")
	}

	data := models.UserData{
		UserID:    userID,
		Responses: responses,
		LastSaved: s.now(),
	}

	if err := s.storage.SaveJSON(usersDir, userDataFilename(userID), data); err != nil {
		return apperrors.NewPersistenceError("failed to save user responses", err)
	}
	return nil
}

// RecordAnswer upserts the answer for one topic key and persists the
// whole response document. An empty userID aborts before any state is
// touched. Persistence failure is returned to the caller; the
// in-memory transcript the answer came from stays valid either way.
func (s *RecorderService) RecordAnswer(userID string, sessionID int, topicKey, text string) error {
	if userID == "" {
		return apperrors.NewNoUserError("cannot record answer without a user")
	}
	if topicKey == "" {
		return apperrors.NewValidationError("topic key must not be empty", nil)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	responses, err := s.LoadUserResponses(userID)
	if err != nil {
		return err
	}

	progress, ok := responses[sessionID]
	if !ok {
		session, found := s.catalog.SessionByID(sessionID)
		if !found {
			return apperrors.NewOutOfRangeError(fmt.Sprintf("unknown session id %d", sessionID))
		}
		progress = models.SessionProgress{
			Title:      session.Title,
			Questions:  make(map[string]models.Answer),
			WordTarget: session.WordTarget,
		}
	}
	if progress.Questions == nil {
		progress.Questions = make(map[string]models.Answer)
	}

	progress.Questions[topicKey] = models.Answer{
		Text:      text,
		Timestamp: s.now(),
	}
	responses[sessionID] = progress

	if err := s.SaveUserResponses(userID, responses); err != nil {
		return err
	}

	s.updateAccountStats(userID, responses, sessionID)

	return nil
}

// updateAccountStats recomputes the aggregate counters and the
// date-based streak on the account profile. Stats are best effort: a
// missing account never fails the save.
func (s *RecorderService) updateAccountStats(userID string, responses map[int]models.SessionProgress, sessionID int) {
	account, err := s.accounts.GetAccount(userID)
	if err != nil {
		return
	}

	totalWords := 0
	for _, progress := range responses {
		totalWords += s.catalog.SessionWordCount(progress)
	}
	account.TotalWords = totalWords

	if progress, ok := responses[sessionID]; ok {
		account.TotalSessions = len(progress.Questions)
	}

	today := s.now().Format("2006-01-02")
	yesterday := s.now().AddDate(0, 0, -1).Format("2006-01-02")
	switch account.LastActiveDate {
	case today:
		// Already counted today.
	case yesterday:
		account.StreakDays++
	default:
		account.StreakDays = 1
	}
	account.LastActiveDate = today

	if err := s.accounts.SaveAccount(account); err != nil {
		utils.GetLogger().Warnf("failed to update stats for user %s: %v", userID, err)
	}
}
