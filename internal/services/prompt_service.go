// internal/services/prompt_service.go
package services

import (
	"fmt"

	"github.com/memlife/memlife/internal/models"
)

// PromptService composes the system prompt sent to the LLM. For
// identical inputs the output is byte-identical; photo-question
// sampling is done upstream and passed in via the ContextBundle.
type PromptService struct {
	context *ContextService
}

// NewPromptService creates a prompt builder over the given aggregator.
func NewPromptService(context *ContextService) *PromptService {
	return &PromptService{context: context}
}

// Build assembles the full system prompt for the active topic. The
// topic text is embedded verbatim; it is the same string used as the
// answer key, so it must never be paraphrased or truncated.
func (s *PromptService) Build(session models.Session, topicKey string, bundle models.ContextBundle, ghostwriterMode bool) string {
	historical := s.context.BuildHistoricalContext(bundle.BirthYear, bundle.Events)
	photos := s.context.BuildPhotoContext(bundle.Images)

	photoStory := ""
	if bundle.PhotoStoryMode {
		photoStory = s.context.BuildPhotoStoryContext(bundle.SelectedPhotos)
	}

	if ghostwriterMode {
		return fmt.Sprintf(`ROLE: You are a senior literary biographer.

CURRENT SESSION: Session %d: %s
CURRENT TOPIC: "%s"
%s%s%s
YOUR APPROACH:
1. Listen attentively
2. Focus on sensory details
3. Connect to historical context when relevant
4. Reference uploaded photos when appropriate
5. Find the deeper story

Tone: Professional and engaging.

IMPORTANT: Ask about photos when they relate to the topic.`,
			session.ID, session.Title, topicKey, historical, photos, photoStory)
	}

	return fmt.Sprintf(`You are a warm biographer helping document a life story.

CURRENT SESSION: Session %d: %s
CURRENT TOPIC: "%s"
%s%s%s
Please:
1. Listen actively
2. Ask ONE natural follow-up question
3. Reference photos or history when relevant
4. Keep conversation flowing

Tone: Kind and curious.`,
		session.ID, session.Title, topicKey, historical, photos, photoStory)
}
