// internal/services/navigator_service.go
package services

import (
	"fmt"
	"sync"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
)

// Navigator is the single source of truth for which topic is active.
// It is a pure state machine over the static catalog: no I/O, no side
// effects beyond its own fields.
type Navigator struct {
	catalog *CatalogService

	mu            sync.RWMutex
	sessionIndex  int
	topicIndex    int
	topicOverride string
}

// NewNavigator creates a navigator positioned at the first topic of
// the first session.
func NewNavigator(catalog *CatalogService) *Navigator {
	return &Navigator{catalog: catalog}
}

// SelectSession activates the session at 0-based index, resetting the
// topic to the first question and clearing any override.
func (n *Navigator) SelectSession(index int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if index < 0 || index >= n.catalog.Count() {
		return apperrors.NewOutOfRangeError(fmt.Sprintf("session index %d out of range [0, %d)", index, n.catalog.Count()))
	}

	n.sessionIndex = index
	n.topicIndex = 0
	n.topicOverride = ""
	return nil
}

// NextTopic advances to the next question of the current session.
// At the last question it is a no-op. Any override is cleared so
// regular navigation resumes.
func (n *Navigator) NextTopic() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.topicOverride = ""

	session, ok := n.catalog.SessionByIndex(n.sessionIndex)
	if !ok {
		return
	}
	if n.topicIndex < len(session.Questions)-1 {
		n.topicIndex++
	}
}

// PreviousTopic steps back one question. At the first question it is a
// no-op. Any override is cleared.
func (n *Navigator) PreviousTopic() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.topicOverride = ""

	if n.topicIndex > 0 {
		n.topicIndex--
	}
}

// SetOverrideTopic replaces the effective topic with an ad-hoc prompt.
// The regular topic index is left untouched for when the override is
// cleared.
func (n *Navigator) SetOverrideTopic(text string) error {
	if text == "" {
		return apperrors.NewValidationError("override topic must not be empty", nil)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.topicOverride = text
	return nil
}

// ClearOverride drops the ad-hoc prompt and resumes regular topics.
func (n *Navigator) ClearOverride() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.topicOverride = ""
}

// EffectiveTopicKey returns the override when set, else the current
// catalog question. This key is what the transcript store and the
// recorder consume.
func (n *Navigator) EffectiveTopicKey() string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.topicOverride != "" {
		return n.topicOverride
	}

	session, ok := n.catalog.SessionByIndex(n.sessionIndex)
	if !ok || n.topicIndex >= len(session.Questions) {
		return ""
	}
	return session.Questions[n.topicIndex]
}

// CurrentSession returns the active catalog session.
func (n *Navigator) CurrentSession() models.Session {
	n.mu.RLock()
	defer n.mu.RUnlock()

	session, _ := n.catalog.SessionByIndex(n.sessionIndex)
	return session
}

// State returns a snapshot of the navigation state.
func (n *Navigator) State() models.NavigationState {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return models.NavigationState{
		SessionIndex:  n.sessionIndex,
		TopicIndex:    n.topicIndex,
		TopicOverride: n.topicOverride,
	}
}
