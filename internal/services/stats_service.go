// internal/services/stats_service.go
package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// UsageStats tracks LLM request and token usage across interviews.
type UsageStats struct {
	TodayRequests int            `json:"today_requests"`
	MonthlyTokens int            `json:"monthly_tokens"`
	DailyStats    map[string]int `json:"daily_stats"`
	MonthlyStats  map[string]int `json:"monthly_stats"`
	LastUpdated   time.Time      `json:"last_updated"`
}

// StatsService persists usage statistics with batched saves so every
// interview turn does not cost a disk write.
type StatsService struct {
	statsFile   string
	mutex       sync.Mutex
	cachedStats *UsageStats

	lastCheckDate  string
	lastCheckMonth string

	isDirty      bool
	lastSaveTime time.Time
	saveInterval time.Duration
}

// NewStatsService creates the stats service rooted at baseDir.
func NewStatsService(baseDir string) *StatsService {
	statsPath := filepath.Join(baseDir, "stats")
	if err := os.MkdirAll(statsPath, 0755); err != nil {
		fmt.Printf("warning: failed to create stats directory: %v\n", err)
	}

	service := &StatsService{
		statsFile:    filepath.Join(statsPath, "usage_stats.json"),
		saveInterval: 30 * time.Second,
	}

	service.startPeriodicSave()

	return service
}

func (s *StatsService) initStatsUnlocked() {
	if s.cachedStats != nil {
		return
	}

	if loaded, err := s.loadStatsFromFile(); err == nil {
		s.rolloverIfNeeded(loaded)
		s.cachedStats = loaded
		return
	}

	s.cachedStats = &UsageStats{
		DailyStats:   make(map[string]int),
		MonthlyStats: make(map[string]int),
		LastUpdated:  time.Now(),
	}
}

func (s *StatsService) loadStatsFromFile() (*UsageStats, error) {
	data, err := os.ReadFile(s.statsFile)
	if err != nil {
		return nil, err
	}

	var stats UsageStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats file: %w", err)
	}
	if stats.DailyStats == nil {
		stats.DailyStats = make(map[string]int)
	}
	if stats.MonthlyStats == nil {
		stats.MonthlyStats = make(map[string]int)
	}
	return &stats, nil
}

// rolloverIfNeeded resets the day and month counters when the period
// has changed since the stats were last written.
func (s *StatsService) rolloverIfNeeded(stats *UsageStats) {
	today := time.Now().Format("2006-01-02")
	month := time.Now().Format("2006-01")

	if s.lastCheckDate == today && s.lastCheckMonth == month {
		return
	}

	if stats.LastUpdated.Format("2006-01-02") != today {
		stats.TodayRequests = 0
	}
	if stats.LastUpdated.Format("2006-01") != month {
		stats.MonthlyTokens = 0
	}

	s.lastCheckDate = today
	s.lastCheckMonth = month
}

// RecordRequest counts one LLM request and its token usage.
func (s *StatsService) RecordRequest(tokens int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.initStatsUnlocked()
	s.rolloverIfNeeded(s.cachedStats)

	today := time.Now().Format("2006-01-02")
	month := time.Now().Format("2006-01")

	s.cachedStats.TodayRequests++
	s.cachedStats.MonthlyTokens += tokens
	s.cachedStats.DailyStats[today]++
	s.cachedStats.MonthlyStats[month] += tokens
	s.cachedStats.LastUpdated = time.Now()
	s.isDirty = true
}

// GetStats returns a copy of the current usage statistics.
func (s *StatsService) GetStats() UsageStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.initStatsUnlocked()
	s.rolloverIfNeeded(s.cachedStats)

	statsCopy := *s.cachedStats
	statsCopy.DailyStats = make(map[string]int, len(s.cachedStats.DailyStats))
	for k, v := range s.cachedStats.DailyStats {
		statsCopy.DailyStats[k] = v
	}
	statsCopy.MonthlyStats = make(map[string]int, len(s.cachedStats.MonthlyStats))
	for k, v := range s.cachedStats.MonthlyStats {
		statsCopy.MonthlyStats[k] = v
	}
	return statsCopy
}

func (s *StatsService) startPeriodicSave() {
	go func() {
		ticker := time.NewTicker(s.saveInterval)
		defer ticker.Stop()

		for range ticker.C {
			s.flushIfDirty()
		}
	}()
}

func (s *StatsService) flushIfDirty() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isDirty || s.cachedStats == nil {
		return
	}

	data, err := json.MarshalIndent(s.cachedStats, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(s.statsFile, data, 0644); err != nil {
		fmt.Printf("warning: failed to save usage stats: %v\n", err)
		return
	}

	s.isDirty = false
	s.lastSaveTime = time.Now()
}

// Flush forces a save of any pending stats. Called on shutdown.
func (s *StatsService) Flush() {
	s.flushIfDirty()
}
