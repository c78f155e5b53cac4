// internal/services/catalog_service.go
package services

import (
	"github.com/memlife/memlife/internal/models"
)

// defaultSessions is the static interview catalog. IDs are 1-based and
// stable; answer records reference the literal question strings below.
var defaultSessions = []models.Session{
	{
		ID:       1,
		Title:    "Childhood",
		Guidance: "Welcome to Session 1: Childhood. Focus on specific, sensory-rich memories.",
		Questions: []string{
			"What is your earliest memory?",
			"Can you describe your family home growing up?",
			"Who were the most influential people in your early years?",
			"What was school like for you?",
			"Were there any favourite games or hobbies?",
			"Is there a moment from childhood that shaped who you are?",
			"If you could give your younger self some advice, what would it be?",
		},
		WordTarget: 800,
	},
	{
		ID:       2,
		Title:    "Family & Relationships",
		Guidance: "Welcome to Session 2: Family & Relationships.",
		Questions: []string{
			"How would you describe your relationship with your parents?",
			"Are there any family traditions you remember fondly?",
			"What was your relationship like with siblings or close relatives?",
			"Can you share a story about a family celebration or challenge?",
			"How did your family shape your values?",
		},
		WordTarget: 700,
	},
	{
		ID:       3,
		Title:    "Education & Growing Up",
		Guidance: "Welcome to Session 3: Education & Growing Up.",
		Questions: []string{
			"What were your favourite subjects at school?",
			"Did you have any memorable teachers or mentors?",
			"How did you feel about exams and studying?",
			"Were there any big turning points in your education?",
			"Did you pursue further education or training?",
			"What advice would you give about learning?",
		},
		WordTarget: 600,
	},
}

// fallbackPrompts is the bank of ad-hoc topics offered when a user
// wants to write outside the scripted question list.
var fallbackPrompts = []string{
	"Describe a smell that takes you straight back to your childhood.",
	"Tell me about a place you have never forgotten.",
	"What is a piece of advice you received that stayed with you?",
	"Describe an object you have kept for many years and why.",
	"Tell me about a friendship that mattered to you.",
}

// CatalogService exposes the static session catalog and the progress
// arithmetic derived from a user's saved answers.
type CatalogService struct {
	sessions []models.Session
}

// NewCatalogService creates the catalog with the default sessions.
func NewCatalogService() *CatalogService {
	return &CatalogService{sessions: defaultSessions}
}

// Sessions returns the full catalog in order.
func (s *CatalogService) Sessions() []models.Session {
	return s.sessions
}

// Count returns the number of catalog sessions.
func (s *CatalogService) Count() int {
	return len(s.sessions)
}

// SessionByIndex returns the session at 0-based index i.
func (s *CatalogService) SessionByIndex(i int) (models.Session, bool) {
	if i < 0 || i >= len(s.sessions) {
		return models.Session{}, false
	}
	return s.sessions[i], true
}

// SessionByID returns the session with the given 1-based ID.
func (s *CatalogService) SessionByID(id int) (models.Session, bool) {
	for _, session := range s.sessions {
		if session.ID == id {
			return session, true
		}
	}
	return models.Session{}, false
}

// FallbackPrompts returns the ad-hoc prompt bank.
func (s *CatalogService) FallbackPrompts() []string {
	return fallbackPrompts
}

// EmptyProgress builds the initial per-session progress map for a
// fresh login, one empty SessionProgress per catalog session.
func (s *CatalogService) EmptyProgress() map[int]models.SessionProgress {
	progress := make(map[int]models.SessionProgress, len(s.sessions))
	for _, session := range s.sessions {
		progress[session.ID] = models.SessionProgress{
			Title:      session.Title,
			Questions:  make(map[string]models.Answer),
			WordTarget: session.WordTarget,
		}
	}
	return progress
}

// SessionWordCount totals the words across every saved answer in one
// session, using the single shared counting rule.
func (s *CatalogService) SessionWordCount(progress models.SessionProgress) int {
	total := 0
	for _, answer := range progress.Questions {
		if answer.Text != "" {
			total += WordCount(answer.Text)
		}
	}
	return total
}

// ProgressPercent computes completion against the session word target.
// A zero target counts as complete.
func (s *CatalogService) ProgressPercent(wordCount, wordTarget int) float64 {
	if wordTarget <= 0 {
		return 100
	}
	return float64(wordCount) / float64(wordTarget) * 100
}

// Summaries merges the catalog with a user's progress into the API
// view used by the session list.
func (s *CatalogService) Summaries(responses map[int]models.SessionProgress) []models.SessionSummary {
	summaries := make([]models.SessionSummary, 0, len(s.sessions))
	for _, session := range s.sessions {
		summary := models.SessionSummary{
			ID:            session.ID,
			Title:         session.Title,
			Guidance:      session.Guidance,
			QuestionCount: len(session.Questions),
			WordTarget:    session.WordTarget,
		}

		if progress, ok := responses[session.ID]; ok {
			summary.AnsweredCount = len(progress.Questions)
			summary.WordCount = s.SessionWordCount(progress)
			if progress.WordTarget > 0 {
				summary.WordTarget = progress.WordTarget
			}
		}
		summary.Percent = s.ProgressPercent(summary.WordCount, summary.WordTarget)

		summaries = append(summaries, summary)
	}
	return summaries
}
