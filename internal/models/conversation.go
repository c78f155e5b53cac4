// internal/models/conversation.go
package models

// Chat roles shared by the transcript store and the LLM providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a topic transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered message log for one (session, topic key)
// pair. Transcripts live only for the process lifetime; the Answer
// record is the durable source of truth.
type Transcript struct {
	SessionID int           `json:"session_id"`
	TopicKey  string        `json:"topic_key"`
	Messages  []ChatMessage `json:"messages"`
}

// LastUserMessage returns the content of the most recent user turn and
// whether one exists.
func (t *Transcript) LastUserMessage() (string, bool) {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RoleUser {
			return t.Messages[i].Content, true
		}
	}
	return "", false
}
