// internal/services/conversation_service.go
package services

import (
	"fmt"
	"sync"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
)

// ConversationService keeps the per-topic message transcripts.
// Transcripts are volatile: they live for the process lifetime only,
// and are rebuilt from the persisted Answer on first access after a
// restart. The Answer record is always the durable source of truth.
type ConversationService struct {
	mu          sync.RWMutex
	transcripts map[string]*models.Transcript // key: sessionID + "\x00" + topicKey
}

// NewConversationService creates an empty transcript store.
func NewConversationService() *ConversationService {
	return &ConversationService{
		transcripts: make(map[string]*models.Transcript),
	}
}

func transcriptKey(sessionID int, topicKey string) string {
	// NUL never occurs in topic text, so the compound key is unambiguous.
	return fmt.Sprintf("%d\x00%s", sessionID, topicKey)
}

// OpeningMessage is the assistant line that poses a topic.
func OpeningMessage(topicKey string) string {
	return "Let's explore: " + topicKey
}

// GetOrCreate returns the transcript for a topic, synthesizing one when
// none exists. With a saved answer the rebuilt transcript is the
// opening assistant message plus the saved user reply; without one it
// is the opening message alone. Calling it again returns the existing
// transcript unchanged.
func (s *ConversationService) GetOrCreate(sessionID int, topicKey string, savedAnswer *models.Answer) *models.Transcript {
	key := transcriptKey(sessionID, topicKey)

	s.mu.RLock()
	if t, exists := s.transcripts[key]; exists {
		s.mu.RUnlock()
		return t
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, exists := s.transcripts[key]; exists {
		return t
	}

	t := &models.Transcript{
		SessionID: sessionID,
		TopicKey:  topicKey,
		Messages: []models.ChatMessage{
			{Role: models.RoleAssistant, Content: OpeningMessage(topicKey)},
		},
	}
	if savedAnswer != nil {
		t.Messages = append(t.Messages, models.ChatMessage{
			Role:    models.RoleUser,
			Content: savedAnswer.Text,
		})
	}

	s.transcripts[key] = t
	return t
}

// AppendUserTurn adds a user message to the topic transcript. The
// caller is responsible for requesting the assistant reply and for
// recording the answer.
func (s *ConversationService) AppendUserTurn(sessionID int, topicKey, text string) {
	s.append(sessionID, topicKey, models.ChatMessage{Role: models.RoleUser, Content: text})
}

// AppendAssistantTurn adds an assistant message: the opening question,
// an LLM reply, or the local fallback after an LLM failure.
func (s *ConversationService) AppendAssistantTurn(sessionID int, topicKey, text string) {
	s.append(sessionID, topicKey, models.ChatMessage{Role: models.RoleAssistant, Content: text})
}

func (s *ConversationService) append(sessionID int, topicKey string, msg models.ChatMessage) {
	key := transcriptKey(sessionID, topicKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.transcripts[key]
	if !exists {
		t = &models.Transcript{SessionID: sessionID, TopicKey: topicKey}
		s.transcripts[key] = t
	}
	t.Messages = append(t.Messages, msg)
}

// EditUserTurn replaces the content of an existing user message in
// place. The transcript length never changes; editing a non-user or
// out-of-range index is an error.
func (s *ConversationService) EditUserTurn(sessionID int, topicKey string, messageIndex int, newText string) error {
	key := transcriptKey(sessionID, topicKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.transcripts[key]
	if !exists {
		return apperrors.NewNotFoundError(fmt.Sprintf("no transcript for topic %q", topicKey), nil)
	}

	if messageIndex < 0 || messageIndex >= len(t.Messages) {
		return apperrors.NewOutOfRangeError(fmt.Sprintf("message index %d out of range [0, %d)", messageIndex, len(t.Messages)))
	}
	if t.Messages[messageIndex].Role != models.RoleUser {
		return apperrors.NewOutOfRangeError(fmt.Sprintf("message %d is not a user message", messageIndex))
	}

	t.Messages[messageIndex].Content = newText
	return nil
}

// Get returns the transcript for a topic, or nil if none exists yet.
func (s *ConversationService) Get(sessionID int, topicKey string) *models.Transcript {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.transcripts[transcriptKey(sessionID, topicKey)]
}

// History returns the transcript messages as LLM history, excluding
// the final message when excludeLast is set (the new user turn is sent
// separately as the prompt).
func (s *ConversationService) History(sessionID int, topicKey string, excludeLast bool) []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.transcripts[transcriptKey(sessionID, topicKey)]
	if t == nil {
		return nil
	}

	messages := t.Messages
	if excludeLast && len(messages) > 0 {
		messages = messages[:len(messages)-1]
	}

	history := make([]models.ChatMessage, len(messages))
	copy(history, messages)
	return history
}

// Reset drops every transcript. Used on logout.
func (s *ConversationService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcripts = make(map[string]*models.Transcript)
}
