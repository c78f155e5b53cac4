// internal/services/events_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/memlife/memlife/internal/models"
)

const maxEventsPerUser = 15

// defaultEvents seeds historical_events.csv when the file is missing.
// Columns: year_range, event, category, region, description.
var defaultEvents = [][]string{
	{"1920s", "Women get the vote in UK", "Political", "UK", "Women over 21 get the right to vote in 1928"},
	{"1940s", "World War II", "Military", "Global", "1939-1945 global conflict"},
	{"1940s", "NHS founded", "Healthcare", "UK", "National Health Service established in 1948"},
	{"1950s", "Coronation of Elizabeth II", "Royal", "UK", "Queen Elizabeth II crowned in 1953"},
	{"1960s", "Man on the moon", "Science", "Global", "Apollo 11 moon landing in 1969"},
	{"1970s", "UK joins EEC", "Political", "UK", "UK joins European Economic Community in 1973"},
	{"1980s", "Falklands War", "Military", "UK", "1982 war between UK and Argentina"},
	{"1990s", "World Wide Web invented", "Technology", "Global", "Tim Berners-Lee invents WWW in 1989"},
	{"2000s", "Financial crisis", "Economic", "Global", "2007-2008 global financial crisis"},
	{"2010s", "Brexit referendum", "Political", "UK", "2016 referendum to leave EU"},
	{"2020s", "COVID-19 pandemic", "Health", "Global", "Global pandemic begins 2020"},
}

// EventsService loads the historical-events CSV and selects the events
// that fall within a user's lifetime.
type EventsService struct {
	csvPath string
	now     func() time.Time
}

// NewEventsService creates the service over the given CSV path,
// seeding the default event set when the file does not exist.
func NewEventsService(csvPath string) (*EventsService, error) {
	s := &EventsService{
		csvPath: csvPath,
		now:     time.Now,
	}

	if _, err := os.Stat(csvPath); os.IsNotExist(err) {
		if err := s.writeDefaultCSV(); err != nil {
			return nil, fmt.Errorf("failed to seed events csv: %w", err)
		}
	}

	return s, nil
}

func (s *EventsService) writeDefaultCSV() error {
	f, err := os.Create(s.csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"year_range", "event", "category", "region", "description"}); err != nil {
		return err
	}
	for _, row := range defaultEvents {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// loadEventsByDecade parses the CSV into decade buckets. Malformed
// rows are skipped rather than failing the whole load.
func (s *EventsService) loadEventsByDecade() (map[string][]models.HistoricalEvent, error) {
	f, err := os.Open(s.csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open events csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse events csv: %w", err)
	}

	byDecade := make(map[string][]models.HistoricalEvent)
	for i, record := range records {
		if i == 0 || len(record) < 2 {
			// Header row, or too few columns to be usable.
			continue
		}

		event := models.HistoricalEvent{
			YearRange: strings.TrimSpace(record[0]),
			Event:     strings.TrimSpace(record[1]),
		}
		if event.YearRange == "" || event.Event == "" {
			continue
		}
		if len(record) > 2 {
			event.Category = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			event.Region = strings.TrimSpace(record[3])
		}
		if len(record) > 4 {
			event.Description = strings.TrimSpace(record[4])
		}

		byDecade[event.YearRange] = append(byDecade[event.YearRange], event)
	}

	return byDecade, nil
}

// EventsForBirthYear returns events from the user's birth decade
// onward, annotated with the approximate age at each event (estimated
// at mid-decade), filtered to non-negative ages, sorted ascending by
// decade, capped at 15.
func (s *EventsService) EventsForBirthYear(birthYear int) ([]models.HistoricalEvent, error) {
	if birthYear <= 0 {
		return nil, nil
	}

	byDecade, err := s.loadEventsByDecade()
	if err != nil {
		return nil, err
	}

	currentYear := s.now().Year()
	startDecade := (birthYear / 10) * 10

	var relevant []models.HistoricalEvent
	for decadeYear := startDecade; decadeYear <= currentYear+10; decadeYear += 10 {
		decadeKey := strconv.Itoa(decadeYear) + "s"

		for _, event := range byDecade[decadeKey] {
			// Age is estimated at the middle of the decade.
			ageAtEvent := decadeYear + 5 - birthYear
			if ageAtEvent < 0 {
				continue
			}
			event.ApproxAge = ageAtEvent
			relevant = append(relevant, event)
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].YearRange < relevant[j].YearRange
	})

	if len(relevant) > maxEventsPerUser {
		relevant = relevant[:maxEventsPerUser]
	}
	return relevant, nil
}
