package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memlife/memlife/internal/models"
)

func testBundle() models.ContextBundle {
	return models.ContextBundle{
		BirthYear: 1953,
		Events: []models.HistoricalEvent{
			{Event: "Moon landing", YearRange: "1960-1969", ApproxAge: 12},
		},
		Images: []models.ImageMeta{
			{OriginalFilename: "wedding.jpg", Description: "Our wedding day"},
		},
	}
}

func TestPromptBuildDeterministic(t *testing.T) {
	prompts := NewPromptService(NewContextService(nil))
	catalog := NewCatalogService()
	session, _ := catalog.SessionByIndex(0)
	bundle := testBundle()

	first := prompts.Build(session, "What is your earliest memory?", bundle, false)
	second := prompts.Build(session, "What is your earliest memory?", bundle, false)
	assert.Equal(t, first, second, "same inputs must produce byte-identical prompts")
}

func TestPromptBuildEmbedsTopicVerbatim(t *testing.T) {
	prompts := NewPromptService(NewContextService(nil))
	catalog := NewCatalogService()
	session, _ := catalog.SessionByIndex(0)

	topic := "Describe a smell that takes you straight back to your childhood."
	out := prompts.Build(session, topic, models.ContextBundle{}, false)

	assert.Contains(t, out, `CURRENT TOPIC: "`+topic+`"`)
	assert.Contains(t, out, "CURRENT SESSION: Session 1: Childhood")
}

func TestPromptBuildModes(t *testing.T) {
	prompts := NewPromptService(NewContextService(nil))
	catalog := NewCatalogService()
	session, _ := catalog.SessionByIndex(0)
	bundle := testBundle()

	casual := prompts.Build(session, "topic", bundle, false)
	assert.Contains(t, casual, "You are a warm biographer")
	assert.Contains(t, casual, "Ask ONE natural follow-up question")
	assert.NotContains(t, casual, "senior literary biographer")

	ghost := prompts.Build(session, "topic", bundle, true)
	assert.Contains(t, ghost, "ROLE: You are a senior literary biographer.")
	assert.Contains(t, ghost, "Find the deeper story")
	assert.NotContains(t, ghost, "warm biographer")
}

func TestPromptBuildIncludesContextBlocks(t *testing.T) {
	prompts := NewPromptService(NewContextService(nil))
	catalog := NewCatalogService()
	session, _ := catalog.SessionByIndex(0)
	bundle := testBundle()

	out := prompts.Build(session, "topic", bundle, false)
	assert.Contains(t, out, "HISTORICAL CONTEXT (Born 1953):")
	assert.Contains(t, out, "USER HAS UPLOADED PHOTOS")
	assert.NotContains(t, out, "PHOTO STORY MODE")

	bundle.PhotoStoryMode = true
	bundle.SelectedPhotos = []models.PhotoStoryQuestions{
		{
			Image:     bundle.Images[0],
			Questions: []string{"Who is in this photo?"},
		},
	}
	out = prompts.Build(session, "topic", bundle, false)
	assert.Contains(t, out, "PHOTO STORY MODE")

	// Blocks render in a fixed order.
	historical := strings.Index(out, "HISTORICAL CONTEXT")
	photos := strings.Index(out, "USER HAS UPLOADED PHOTOS")
	story := strings.Index(out, "PHOTO STORY MODE")
	require.True(t, historical < photos && photos < story)
}

func TestPromptBuildWithoutContext(t *testing.T) {
	prompts := NewPromptService(NewContextService(nil))
	catalog := NewCatalogService()
	session, _ := catalog.SessionByIndex(2)

	out := prompts.Build(session, "topic", models.ContextBundle{}, false)
	assert.NotContains(t, out, "HISTORICAL CONTEXT")
	assert.NotContains(t, out, "USER HAS UPLOADED PHOTOS")
	assert.Contains(t, out, "CURRENT SESSION: Session 3: Education & Growing Up")
}
