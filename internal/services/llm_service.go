// internal/services/llm_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/memlife/memlife/internal/config"
	apperrors "github.com/memlife/memlife/internal/errors"
	"github.com/memlife/memlife/internal/llm"
	"github.com/memlife/memlife/internal/models"
	"github.com/memlife/memlife/internal/utils"
)

// FallbackReply is appended as the assistant turn whenever the LLM
// call fails or no provider is configured. The turn is still appended
// and the answer still saved; a failed completion never blocks the
// save path.
const FallbackReply = "Thank you for sharing that. Your response has been saved."

const (
	interviewTemperature = 0.7
	interviewMaxTokens   = 300
	completionTimeout    = 60 * time.Second
)

var ErrLLMNotReady = errors.New("llm service not ready")

// LLMService wraps the configured provider behind a single chat
// completion entry point.
type LLMService struct {
	providerMutex sync.RWMutex
	provider      llm.Provider
	providerName  string
	isReady       bool
	readyState    string

	stats *StatsService
}

// NewLLMService creates the service from the current configuration. A
// missing or bad configuration yields a not-ready service rather than
// an error; completions then fall back locally.
func NewLLMService(stats *StatsService) *LLMService {
	service := &LLMService{
		readyState: "Uninitialized",
		stats:      stats,
	}

	cfg := config.GetCurrentConfig()
	if cfg == nil {
		service.readyState = "Failed to retrieve configuration"
		return service
	}

	if cfg.LLMProvider == "" || cfg.LLMConfig == nil || cfg.LLMConfig["api_key"] == "" {
		service.readyState = "API key not configured"
		return service
	}

	provider, err := llm.GetProvider(cfg.LLMProvider, cfg.LLMConfig)
	if err != nil {
		service.readyState = fmt.Sprintf("Initialization failed: %v", err)
		return service
	}

	service.provider = provider
	service.providerName = cfg.LLMProvider
	service.isReady = true
	service.readyState = "Ready"

	return service
}

// IsReady reports whether a provider is configured and initialized.
func (s *LLMService) IsReady() bool {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()

	return s.provider != nil && s.isReady
}

// GetReadyState describes why the service is or is not ready.
func (s *LLMService) GetReadyState() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()

	return s.readyState
}

// ProviderName returns the configured provider key, or "none".
func (s *LLMService) ProviderName() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()

	if s.providerName == "" {
		return "none"
	}
	return s.providerName
}

// AvailableProviders lists the provider keys registered at startup.
func (s *LLMService) AvailableProviders() []string {
	return llm.ListProviders()
}

// UpdateProvider swaps the active provider, persisting the new
// settings through the config layer.
func (s *LLMService) UpdateProvider(providerName string, providerConfig map[string]string) error {
	provider, err := llm.GetProvider(providerName, providerConfig)
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("failed to initialize provider %q", providerName), err)
	}

	if err := config.UpdateLLMConfig(providerName, providerConfig); err != nil {
		return apperrors.NewPersistenceError("failed to persist llm config", err)
	}

	s.providerMutex.Lock()
	defer s.providerMutex.Unlock()

	s.provider = provider
	s.providerName = providerName
	s.isReady = true
	s.readyState = "Ready"
	return nil
}

// Complete runs one interview chat completion: system prompt, prior
// transcript turns, and the new user message.
func (s *LLMService) Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, userMessage string) (string, error) {
	s.providerMutex.RLock()
	provider := s.provider
	ready := s.isReady
	s.providerMutex.RUnlock()

	if !ready || provider == nil {
		return "", apperrors.NewLLMFailureError("llm service not ready", ErrLLMNotReady)
	}

	llmHistory := make([]llm.Message, 0, len(history))
	for _, msg := range history {
		// Providers accept only user/assistant turns in history.
		if msg.Role != models.RoleUser && msg.Role != models.RoleAssistant {
			continue
		}
		llmHistory = append(llmHistory, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	resp, err := provider.CompleteText(ctx, llm.CompletionRequest{
		Prompt:       userMessage,
		SystemPrompt: systemPrompt,
		History:      llmHistory,
		Temperature:  interviewTemperature,
		MaxTokens:    interviewMaxTokens,
	})
	if err != nil {
		utils.GetLogger().Errorf("llm completion failed: %v", err)
		return "", apperrors.NewLLMFailureError("completion failed", err)
	}

	if s.stats != nil {
		s.stats.RecordRequest(resp.TokensUsed)
	}

	return resp.Text, nil
}

// CompleteOrFallback runs a completion and substitutes the fixed
// fallback acknowledgment on any failure. The second return reports
// whether the reply came from the model.
func (s *LLMService) CompleteOrFallback(ctx context.Context, systemPrompt string, history []models.ChatMessage, userMessage string) (string, bool) {
	text, err := s.Complete(ctx, systemPrompt, history, userMessage)
	if err != nil {
		return FallbackReply, false
	}
	return text, true
}
