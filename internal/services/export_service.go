// internal/services/export_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
)

// ExportService assembles the downloadable biography document from the
// saved responses, the account profile and the photo index.
type ExportService struct {
	catalog  *CatalogService
	recorder *RecorderService
	accounts *AccountService
	images   *ImageService
}

// NewExportService creates the export assembler.
func NewExportService(catalog *CatalogService, recorder *RecorderService, accounts *AccountService, images *ImageService) *ExportService {
	return &ExportService{
		catalog:  catalog,
		recorder: recorder,
		accounts: accounts,
		images:   images,
	}
}

// BuildDocument gathers everything a user has written into one export
// object. Sessions without a single saved answer are skipped.
func (s *ExportService) BuildDocument(userID string) (*models.ExportDocument, error) {
	if userID == "" {
		return nil, apperrors.NewNoUserError("cannot export without a user")
	}

	account, err := s.accounts.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	responses, err := s.recorder.LoadUserResponses(userID)
	if err != nil {
		return nil, apperrors.WrapError(err, "cannot export responses", apperrors.ErrorTypePersistence)
	}

	doc := &models.ExportDocument{
		User:        userID,
		UserName:    strings.TrimSpace(account.Profile.FirstName + " " + account.Profile.LastName),
		UserProfile: account.Profile,
		Stories:     make(map[string]models.ExportSession),
		ExportDate:  time.Now(),
	}

	totalStories := 0
	for _, session := range s.catalog.Sessions() {
		progress, ok := responses[session.ID]
		if !ok || len(progress.Questions) == 0 {
			continue
		}

		sessionImages, err := s.images.ListSessionImages(userID, session.ID)
		if err != nil {
			return nil, err
		}

		doc.Stories[fmt.Sprintf("session_%d", session.ID)] = models.ExportSession{
			Title:     session.Title,
			Questions: progress.Questions,
			Images:    sessionImages,
		}
		totalStories += len(progress.Questions)
	}

	doc.Stats = models.ExportStats{
		TotalSessions: len(doc.Stories),
		TotalStories:  totalStories,
		TotalImages:   s.images.TotalUserImages(userID),
	}

	return doc, nil
}
