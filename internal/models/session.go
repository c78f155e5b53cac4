// internal/models/session.go
package models

import "time"

// Session is a static catalog entry describing one themed interview
// session. The catalog is defined at process start and never mutated.
type Session struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Guidance   string   `json:"guidance"`
	Questions  []string `json:"questions"`
	WordTarget int      `json:"word_target"`
}

// Answer is the single durable record for one topic key. It is
// overwritten on edit, never versioned.
type Answer struct {
	Text      string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionProgress holds a user's saved answers for one session.
// Keys of Questions are either literal catalog question strings or
// ad-hoc override prompts chosen at answer time.
type SessionProgress struct {
	Title      string            `json:"title"`
	Questions  map[string]Answer `json:"questions"`
	Summary    string            `json:"summary"`
	Completed  bool              `json:"completed"`
	WordTarget int               `json:"word_target"`
}

// UserData is the persisted per-user document: one JSON file per user,
// keyed on disk by a hash of the user identifier.
type UserData struct {
	UserID    string                  `json:"user_id"`
	Responses map[int]SessionProgress `json:"responses"`
	LastSaved time.Time               `json:"last_saved"`
}

// NavigationState tracks which topic is active. While TopicOverride is
// non-empty the override string is the effective topic key and
// TopicIndex is ignored.
type NavigationState struct {
	SessionIndex  int    `json:"current_session_index"`
	TopicIndex    int    `json:"current_topic_index"`
	TopicOverride string `json:"topic_override,omitempty"`
}

// SessionSummary is the catalog-plus-progress view returned by the API.
type SessionSummary struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Guidance      string  `json:"guidance"`
	QuestionCount int     `json:"question_count"`
	AnsweredCount int     `json:"answered_count"`
	WordCount     int     `json:"word_count"`
	WordTarget    int     `json:"word_target"`
	Percent       float64 `json:"percent"`
}
