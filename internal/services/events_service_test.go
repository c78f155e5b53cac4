package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventsService(t *testing.T) *EventsService {
	t.Helper()

	svc, err := NewEventsService(filepath.Join(t.TempDir(), "historical_events.csv"))
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestEventsServiceSeedsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historical_events.csv")

	_, err := NewEventsService(path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "year_range,event,category,region,description")
	assert.Contains(t, string(content), "Man on the moon")
}

func TestEventsServiceKeepsExistingCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historical_events.csv")
	custom := "year_range,event\n1950s,Custom town fair\n"
	require.NoError(t, os.WriteFile(path, []byte(custom), 0644))

	svc, err := NewEventsService(path)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	events, err := svc.EventsForBirthYear(1950)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Custom town fair", events[0].Event)
}

func TestEventsForBirthYearAges(t *testing.T) {
	svc := newTestEventsService(t)

	events, err := svc.EventsForBirthYear(1953)
	require.NoError(t, err)
	require.NotEmpty(t, events)

	for _, event := range events {
		assert.GreaterOrEqual(t, event.ApproxAge, 0, "events before birth must be filtered out")
	}

	// Born 1953: decade start 1950, mid-decade age 1955-1953 = 2.
	assert.Equal(t, "1950s", events[0].YearRange)
	assert.Equal(t, 2, events[0].ApproxAge)

	// The 1940s events predate the birth decade entirely.
	for _, event := range events {
		assert.NotEqual(t, "1940s", event.YearRange)
	}
}

func TestEventsForBirthYearSorted(t *testing.T) {
	svc := newTestEventsService(t)

	events, err := svc.EventsForBirthYear(1930)
	require.NoError(t, err)

	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].YearRange, events[i].YearRange)
	}
}

func TestEventsForBirthYearCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historical_events.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	f.WriteString("year_range,event\n")
	for i := 0; i < 30; i++ {
		f.WriteString("1960s,Event\n")
	}
	f.Close()

	svc, err := NewEventsService(path)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	events, err := svc.EventsForBirthYear(1960)
	require.NoError(t, err)
	assert.Len(t, events, maxEventsPerUser)
}

func TestEventsForBirthYearInvalidInput(t *testing.T) {
	svc := newTestEventsService(t)

	events, err := svc.EventsForBirthYear(0)
	require.NoError(t, err)
	assert.Nil(t, events)

	events, err = svc.EventsForBirthYear(-5)
	require.NoError(t, err)
	assert.Nil(t, events)
}

func TestLoadEventsSkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historical_events.csv")
	content := "year_range,event\n" +
		"1950s,Good event\n" +
		",Missing decade\n" +
		"1960s,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	svc, err := NewEventsService(path)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	events, err := svc.EventsForBirthYear(1950)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Good event", events[0].Event)
}
