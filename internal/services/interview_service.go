// internal/services/interview_service.go
package services

import (
	"context"
	"sync"

	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/models"
	"github.com/memlife/memlife/internal/utils"
)

// interviewState is everything volatile about one user's interview:
// where they are in the catalog, their open transcripts, and the two
// conversation modes. It lives only for the lifetime of the process.
type interviewState struct {
	mu             sync.Mutex
	navigator      *Navigator
	conversations  *ConversationService
	ghostwriter    bool
	photoStoryMode bool
}

// InterviewView is the state snapshot returned to the API.
type InterviewView struct {
	Navigation      models.NavigationState `json:"navigation"`
	Session         models.Session         `json:"session"`
	TopicKey        string                 `json:"topic_key"`
	GhostwriterMode bool                   `json:"ghostwriter_mode"`
	PhotoStoryMode  bool                   `json:"photo_story_mode"`
	Messages        []models.ChatMessage   `json:"messages"`
}

// InterviewReply is the result of one interview turn.
type InterviewReply struct {
	Reply     string `json:"reply"`
	FromModel bool   `json:"from_model"`
	Saved     bool   `json:"saved"`
	SaveError string `json:"save_error,omitempty"`
	TopicKey  string `json:"topic_key"`
	SessionID int    `json:"session_id"`
}

// InterviewService orchestrates one interview turn end to end:
// navigation, transcript, context aggregation, prompt build, LLM call
// and durable answer recording.
type InterviewService struct {
	catalog  *CatalogService
	accounts *AccountService
	recorder *RecorderService
	events   *EventsService
	images   *ImageService
	context  *ContextService
	prompts  *PromptService
	llm      *LLMService

	mu     sync.Mutex
	states map[string]*interviewState
}

// NewInterviewService wires the orchestrator over its collaborators.
func NewInterviewService(
	catalog *CatalogService,
	accounts *AccountService,
	recorder *RecorderService,
	events *EventsService,
	images *ImageService,
	contextSvc *ContextService,
	prompts *PromptService,
	llmSvc *LLMService,
) *InterviewService {
	return &InterviewService{
		catalog:  catalog,
		accounts: accounts,
		recorder: recorder,
		events:   events,
		images:   images,
		context:  contextSvc,
		prompts:  prompts,
		llm:      llmSvc,
		states:   make(map[string]*interviewState),
	}
}

func (s *InterviewService) stateFor(userID string) *interviewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[userID]
	if !ok {
		state = &interviewState{
			navigator:     NewNavigator(s.catalog),
			conversations: NewConversationService(),
		}
		s.states[userID] = state
	}
	return state
}

// DropState discards a user's volatile interview state. Called on
// logout; saved answers are untouched.
func (s *InterviewService) DropState(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

// View returns the current interview snapshot, opening the transcript
// for the active topic if it does not exist yet.
func (s *InterviewService) View(userID string) (*InterviewView, error) {
	if userID == "" {
		return nil, apperrors.NewNoUserError("no user id provided")
	}

	state := s.stateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	session := state.navigator.CurrentSession()
	topicKey := state.navigator.EffectiveTopicKey()

	transcript := state.conversations.GetOrCreate(session.ID, topicKey, s.savedAnswer(userID, session.ID, topicKey))

	return &InterviewView{
		Navigation:      state.navigator.State(),
		Session:         session,
		TopicKey:        topicKey,
		GhostwriterMode: state.ghostwriter,
		PhotoStoryMode:  state.photoStoryMode,
		Messages:        append([]models.ChatMessage(nil), transcript.Messages...),
	}, nil
}

// savedAnswer looks up the durable answer for a topic so a reopened
// transcript can be rebuilt from it. Load failures just mean a fresh
// transcript.
func (s *InterviewService) savedAnswer(userID string, sessionID int, topicKey string) *models.Answer {
	responses, err := s.recorder.LoadUserResponses(userID)
	if err != nil {
		return nil
	}
	progress, ok := responses[sessionID]
	if !ok {
		return nil
	}
	answer, ok := progress.Questions[topicKey]
	if !ok {
		return nil
	}
	return &answer
}

// SelectSession moves a user to another catalog session.
func (s *InterviewService) SelectSession(userID string, index int) error {
	if userID == "" {
		return apperrors.NewNoUserError("no user id provided")
	}
	state := s.stateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.navigator.SelectSession(index)
}

// NextTopic advances to the next catalog question.
func (s *InterviewService) NextTopic(userID string) error {
	if userID == "" {
		return apperrors.NewNoUserError("no user id provided")
	}
	state := s.stateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	state.navigator.NextTopic()
	return nil
}

// PreviousTopic steps back to the previous catalog question.
func (s *InterviewService) PreviousTopic(userID string) error {
	if userID == "" {
		return apperrors.NewNoUserError("no user id provided")
	}
	state := s.stateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	state.navigator.PreviousTopic()
	return nil
}

// SetOverrideTopic installs an ad-hoc prompt as the active topic.
func (s *InterviewService) SetOverrideTopic(userID, text string) error {
	if userID == "" {
		return apperrors.NewNoUserError("no user id provided")
	}
	state := s.stateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.navigator.SetOverrideTopic(text)
}

// ClearOverride returns navigation to the catalog question.
func (s *InterviewService) ClearOverride(userID string) error {
	if userID == "" {
		return apperrors.NewNoUserError("no user id provided")
	}
	state := s.stateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	state.navigator.ClearOverride()
	return nil
}

// SetGhostwriterMode toggles the literary-biographer prompt framing.
func (s *InterviewService) SetGhostwriterMode(userID string, enabled bool) error {
	if userID == "" {
		return apperrors.NewNoUserError("no user id provided")
	}
	state := s.stateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	state.ghostwriter = enabled
	return nil
}

// SetPhotoStoryMode toggles photo-story prompting for later turns.
func (s *InterviewService) SetPhotoStoryMode(userID string, enabled bool) error {
	if userID == "" {
		return apperrors.NewNoUserError("no user id provided")
	}
	state := s.stateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	state.photoStoryMode = enabled
	return nil
}

// buildBundle aggregates the historical events and photo metadata for
// one prompt build. Collaborator failures degrade to an emptier
// bundle; they never block the turn.
func (s *InterviewService) buildBundle(userID string, sessionID int, photoStory bool) models.ContextBundle {
	bundle := models.ContextBundle{PhotoStoryMode: photoStory}

	if account, err := s.accounts.GetAccount(userID); err == nil {
		bundle.BirthYear = account.Profile.BirthYear()
	}

	if bundle.BirthYear > 0 {
		events, err := s.events.EventsForBirthYear(bundle.BirthYear)
		if err != nil {
			utils.GetLogger().Warnf("historical events unavailable for user %s: %v", userID, err)
		} else {
			bundle.Events = events
		}
	}

	images, err := s.images.ListSessionImages(userID, sessionID)
	if err != nil {
		utils.GetLogger().Warnf("image index unavailable for user %s: %v", userID, err)
	} else {
		bundle.Images = images
	}

	if photoStory && len(bundle.Images) > 0 {
		selected := bundle.Images
		if len(selected) > maxStoryPhotos {
			selected = selected[:maxStoryPhotos]
		}
		bundle.SelectedPhotos = s.context.SamplePhotoQuestions(selected)
	}

	return bundle
}

// SendMessage runs one full interview turn. The user's text is
// appended to the transcript, the reply is generated (or the fallback
// substituted), and the answer is recorded durably. A persistence
// failure is reported in the reply but does not lose the transcript.
func (s *InterviewService) SendMessage(ctx context.Context, userID, text string) (*InterviewReply, error) {
	if userID == "" {
		return nil, apperrors.NewNoUserError("cannot send a message without a user")
	}
	if text == "" {
		return nil, apperrors.NewValidationError("message must not be empty", nil)
	}

	state := s.stateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	session := state.navigator.CurrentSession()
	topicKey := state.navigator.EffectiveTopicKey()

	state.conversations.GetOrCreate(session.ID, topicKey, s.savedAnswer(userID, session.ID, topicKey))
	state.conversations.AppendUserTurn(session.ID, topicKey, text)

	bundle := s.buildBundle(userID, session.ID, state.photoStoryMode)
	systemPrompt := s.prompts.Build(session, topicKey, bundle, state.ghostwriter)
	history := state.conversations.History(session.ID, topicKey, true)

	reply, fromModel := s.llm.CompleteOrFallback(ctx, systemPrompt, history, text)
	state.conversations.AppendAssistantTurn(session.ID, topicKey, reply)

	result := &InterviewReply{
		Reply:     reply,
		FromModel: fromModel,
		Saved:     true,
		TopicKey:  topicKey,
		SessionID: session.ID,
	}

	if err := s.recorder.RecordAnswer(userID, session.ID, topicKey, text); err != nil {
		utils.GetLogger().Errorf("failed to record answer for user %s: %v", userID, err)
		result.Saved = false
		result.SaveError = err.Error()
	}

	return result, nil
}

// EditMessage rewrites a previous user turn in place and re-records
// the durable answer with the new text.
func (s *InterviewService) EditMessage(userID string, messageIndex int, newText string) (*InterviewReply, error) {
	if userID == "" {
		return nil, apperrors.NewNoUserError("cannot edit a message without a user")
	}
	if newText == "" {
		return nil, apperrors.NewValidationError("edited message must not be empty", nil)
	}

	state := s.stateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	session := state.navigator.CurrentSession()
	topicKey := state.navigator.EffectiveTopicKey()

	if err := state.conversations.EditUserTurn(session.ID, topicKey, messageIndex, newText); err != nil {
		return nil, err
	}

	result := &InterviewReply{
		Reply:     newText,
		Saved:     true,
		TopicKey:  topicKey,
		SessionID: session.ID,
	}

	if err := s.recorder.RecordAnswer(userID, session.ID, topicKey, newText); err != nil {
		utils.GetLogger().Errorf("failed to re-record edited answer for user %s: %v", userID, err)
		result.Saved = false
		result.SaveError = err.Error()
	}

	return result, nil
}

// SessionSummaries returns the catalog joined with the user's
// progress for the session list view.
func (s *InterviewService) SessionSummaries(userID string) ([]models.SessionSummary, error) {
	if userID == "" {
		return nil, apperrors.NewNoUserError("no user id provided")
	}
	responses, err := s.recorder.LoadUserResponses(userID)
	if err != nil {
		return nil, err
	}
	return s.catalog.Summaries(responses), nil
}
