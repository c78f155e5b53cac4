package services

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memlife/memlife/internal/models"
)

func TestBuildHistoricalContextSkipsNegativeAges(t *testing.T) {
	ctx := NewContextService(nil)

	events := []models.HistoricalEvent{
		{Event: "Before they were born", YearRange: "1940-1949", ApproxAge: -8},
		{Event: "Moon landing", YearRange: "1960-1969", ApproxAge: 12},
	}

	out := ctx.BuildHistoricalContext(1953, events)
	assert.NotContains(t, out, "Before they were born")
	assert.Contains(t, out, "- Moon landing (1960-1969) (Age 12)")
	assert.Contains(t, out, "HISTORICAL CONTEXT (Born 1953):")
	assert.Contains(t, out, "During their lifetime:")
}

func TestBuildHistoricalContextLineCap(t *testing.T) {
	ctx := NewContextService(nil)

	var events []models.HistoricalEvent
	for i := 0; i < 20; i++ {
		events = append(events, models.HistoricalEvent{
			Event:     "Event",
			YearRange: "1950-1959",
			ApproxAge: i,
		})
	}

	out := ctx.BuildHistoricalContext(1950, events)
	assert.Equal(t, maxHistoricalLines, strings.Count(out, "- Event"))
}

func TestBuildHistoricalContextEmptyInputs(t *testing.T) {
	ctx := NewContextService(nil)

	assert.Empty(t, ctx.BuildHistoricalContext(0, []models.HistoricalEvent{{Event: "x", ApproxAge: 1}}))
	assert.Empty(t, ctx.BuildHistoricalContext(1950, nil))
	assert.Empty(t, ctx.BuildHistoricalContext(1950, []models.HistoricalEvent{{Event: "x", ApproxAge: -1}}),
		"all-negative events render nothing")
}

func TestBuildPhotoContext(t *testing.T) {
	ctx := NewContextService(nil)

	assert.Empty(t, ctx.BuildPhotoContext(nil))

	images := []models.ImageMeta{
		{OriginalFilename: "wedding.jpg", Description: "Our wedding day"},
		{OriginalFilename: "house.jpg"},
		{OriginalFilename: "dog.jpg"},
		{OriginalFilename: "extra.jpg"},
	}

	out := ctx.BuildPhotoContext(images)
	assert.Contains(t, out, "USER HAS UPLOADED PHOTOS")
	assert.Contains(t, out, "- wedding.jpg: Our wedding day")
	assert.Contains(t, out, "- house.jpg")
	assert.NotContains(t, out, "extra.jpg", "photo lines are capped")
	assert.Contains(t, out, "Reference these photos when relevant in your questions.")
}

func TestSamplePhotoQuestionsBounds(t *testing.T) {
	ctx := NewContextService(rand.New(rand.NewSource(42)))

	images := []models.ImageMeta{
		{ID: "a", OriginalFilename: "a.jpg"},
		{ID: "b", OriginalFilename: "b.jpg"},
		{ID: "c", OriginalFilename: "c.jpg"},
		{ID: "d", OriginalFilename: "d.jpg"},
	}

	for i := 0; i < 50; i++ {
		sampled := ctx.SamplePhotoQuestions(images)
		require.Len(t, sampled, maxStoryPhotos, "at most three photos are selected")

		for _, entry := range sampled {
			assert.GreaterOrEqual(t, len(entry.Questions), 2)
			assert.LessOrEqual(t, len(entry.Questions), 3)

			seen := make(map[string]bool)
			for _, q := range entry.Questions {
				assert.Contains(t, photoQuestionBank, q)
				assert.False(t, seen[q], "questions must not repeat for one photo")
				seen[q] = true
			}
		}
	}
}

func TestSamplePhotoQuestionsEmpty(t *testing.T) {
	ctx := NewContextService(nil)
	assert.Nil(t, ctx.SamplePhotoQuestions(nil))
}

func TestBuildPhotoStoryContextDeterministic(t *testing.T) {
	ctx := NewContextService(nil)

	selected := []models.PhotoStoryQuestions{
		{
			Image:     models.ImageMeta{OriginalFilename: "wedding.jpg", Description: "June 1975"},
			Questions: []string{"Who is in this photo?", "Where was this photo taken?"},
		},
	}

	first := ctx.BuildPhotoStoryContext(selected)
	second := ctx.BuildPhotoStoryContext(selected)
	assert.Equal(t, first, second, "rendering a pre-sampled set is deterministic")

	assert.Contains(t, first, "PHOTO STORY MODE")
	assert.Contains(t, first, "Photo: wedding.jpg - June 1975")
	assert.Contains(t, first, "  * Who is in this photo?")
}
