// internal/services/image_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
	"github.com/memlife/memlife/internal/storage"
	"github.com/memlife/memlife/internal/utils"
)

const imagesDir = "images"

// ImageService tracks photo metadata per user and session. Upload
// mechanics and thumbnailing live elsewhere; this service only records
// what was uploaded so prompts can reference it.
type ImageService struct {
	storage *storage.FileStorage
}

// NewImageService creates the service over the shared file storage.
func NewImageService(fs *storage.FileStorage) *ImageService {
	return &ImageService{storage: fs}
}

func imageIndexFilename(userID string) string {
	return "images_" + utils.UserFileHash(userID) + ".json"
}

type imageIndex struct {
	UserID string             `json:"user_id"`
	Images []models.ImageMeta `json:"images"`
}

func (s *ImageService) loadIndex(userID string) (*imageIndex, error) {
	index := &imageIndex{UserID: userID}
	if !s.storage.FileExists(imagesDir, imageIndexFilename(userID)) {
		return index, nil
	}
	if err := s.storage.LoadJSON(imagesDir, imageIndexFilename(userID), index); err != nil {
		return nil, apperrors.NewPersistenceError("failed to load image index", err)
	}
	return index, nil
}

// RegisterImage records metadata for one uploaded photo.
func (s *ImageService) RegisterImage(userID string, meta models.ImageMeta) (*models.ImageMeta, error) {
	if userID == "" {
		return nil, apperrors.NewNoUserError("cannot register image without a user")
	}
	if strings.TrimSpace(meta.OriginalFilename) == "" {
		return nil, apperrors.NewValidationError("image filename must not be empty", nil)
	}

	index, err := s.loadIndex(userID)
	if err != nil {
		return nil, err
	}

	meta.ID = uuid.NewString()
	if meta.UploadDate == "" {
		meta.UploadDate = time.Now().Format(time.RFC3339)
	}
	index.Images = append(index.Images, meta)

	if err := s.storage.SaveJSON(imagesDir, imageIndexFilename(userID), index); err != nil {
		return nil, apperrors.NewPersistenceError("failed to save image index", err)
	}
	return &meta, nil
}

// ListSessionImages returns the photo metadata for one session.
func (s *ImageService) ListSessionImages(userID string, sessionID int) ([]models.ImageMeta, error) {
	if userID == "" {
		return nil, nil
	}

	index, err := s.loadIndex(userID)
	if err != nil {
		return nil, err
	}

	var images []models.ImageMeta
	for _, img := range index.Images {
		if img.SessionID == sessionID {
			images = append(images, img)
		}
	}
	return images, nil
}

// TotalUserImages counts all photos a user has registered.
func (s *ImageService) TotalUserImages(userID string) int {
	index, err := s.loadIndex(userID)
	if err != nil {
		return 0
	}
	return len(index.Images)
}

// GetImage returns one photo record by ID.
func (s *ImageService) GetImage(userID, imageID string) (*models.ImageMeta, error) {
	index, err := s.loadIndex(userID)
	if err != nil {
		return nil, err
	}
	for _, img := range index.Images {
		if img.ID == imageID {
			imgCopy := img
			return &imgCopy, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("image not found: %s", imageID), nil)
}
