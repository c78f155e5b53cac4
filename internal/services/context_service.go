// internal/services/context_service.go
package services

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/memlife/memlife/internal/models"
)

const (
	maxHistoricalLines = 8
	maxPhotoLines      = 3
	maxStoryPhotos     = 3
)

// photoQuestionBank is the fixed set of interview questions sampled
// for each photo in photo-story mode.
var photoQuestionBank = []string{
	"Who is in this photo?",
	"Where was this photo taken?",
	"When was this photo taken, roughly?",
	"What was happening just before or after this moment?",
	"Why have you kept this photo all these years?",
}

// ContextService renders collaborator data into the prompt fragments
// consumed by the prompt builder. All methods degrade to the empty
// string on missing input; none of them fail.
type ContextService struct {
	rng *rand.Rand
}

// NewContextService creates an aggregator using the given random
// source for photo-question sampling. A nil source falls back to the
// global one.
func NewContextService(rng *rand.Rand) *ContextService {
	return &ContextService{rng: rng}
}

// BuildHistoricalContext renders the lifetime-events block. Events
// with a negative approximate age are skipped even if the upstream
// collaborator failed to filter them.
func (s *ContextService) BuildHistoricalContext(birthYear int, events []models.HistoricalEvent) string {
	if birthYear <= 0 || len(events) == 0 {
		return ""
	}

	var lines []string
	for _, event := range events {
		if event.ApproxAge < 0 {
			continue
		}
		line := fmt.Sprintf("- %s (%s) (Age %d)", event.Event, event.YearRange, event.ApproxAge)
		lines = append(lines, line)
		if len(lines) >= maxHistoricalLines {
			break
		}
	}

	if len(lines) == 0 {
		return ""
	}

	return fmt.Sprintf("\nHISTORICAL CONTEXT (Born %d):\nDuring their lifetime:\n%s\n",
		birthYear, strings.Join(lines, "\n"))
}

// BuildPhotoContext renders the uploaded-photos block for the active
// session.
func (s *ContextService) BuildPhotoContext(images []models.ImageMeta) string {
	if len(images) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nUSER HAS UPLOADED PHOTOS:\n")
	for i, img := range images {
		if i >= maxPhotoLines {
			break
		}
		b.WriteString("- " + img.OriginalFilename)
		if img.Description != "" {
			b.WriteString(": " + img.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nReference these photos when relevant in your questions.\n")
	return b.String()
}

// SamplePhotoQuestions picks 2-3 questions from the fixed bank for
// each of up to 3 selected photos. The subset is random but the bounds
// always hold.
func (s *ContextService) SamplePhotoQuestions(selected []models.ImageMeta) []models.PhotoStoryQuestions {
	if len(selected) == 0 {
		return nil
	}
	if len(selected) > maxStoryPhotos {
		selected = selected[:maxStoryPhotos]
	}

	result := make([]models.PhotoStoryQuestions, 0, len(selected))
	for _, img := range selected {
		count := 2 + s.intn(2) // 2 or 3

		order := s.perm(len(photoQuestionBank))
		questions := make([]string, 0, count)
		for _, idx := range order[:count] {
			questions = append(questions, photoQuestionBank[idx])
		}

		result = append(result, models.PhotoStoryQuestions{
			Image:     img,
			Questions: questions,
		})
	}
	return result
}

// BuildPhotoStoryContext renders the photo-story block from an
// already-sampled question set. Rendering is deterministic for a given
// input; all randomness happens in SamplePhotoQuestions.
func (s *ContextService) BuildPhotoStoryContext(selected []models.PhotoStoryQuestions) string {
	if len(selected) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nPHOTO STORY MODE - the user wants to talk through these photos:\n")
	for i, entry := range selected {
		if i >= maxStoryPhotos {
			break
		}
		b.WriteString("\nPhoto: " + entry.Image.OriginalFilename)
		if entry.Image.Description != "" {
			b.WriteString(" - " + entry.Image.Description)
		}
		b.WriteString("\n")
		for _, q := range entry.Questions {
			b.WriteString("  * " + q + "\n")
		}
	}
	return b.String()
}

func (s *ContextService) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

func (s *ContextService) perm(n int) []int {
	if s.rng != nil {
		return s.rng.Perm(n)
	}
	return rand.Perm(n)
}
