// internal/models/account.go
package models

import (
	"strconv"
	"strings"
	"time"
)

// Profile holds the user-visible account details.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Birthdate string `json:"birthdate,omitempty"`
}

// Account is the persisted account record, one JSON file per account.
type Account struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	Profile      Profile   `json:"profile"`

	// Aggregate writing stats, updated on every saved answer.
	TotalWords     int    `json:"total_words"`
	TotalSessions  int    `json:"total_sessions"`
	StreakDays     int    `json:"streak_days"`
	LastActiveDate string `json:"last_active_date,omitempty"` // YYYY-MM-DD
}

// BirthYear parses the year out of a free-form birthdate such as
// "January 2, 1953" or "1953-01-02". Returns 0 when no year is found.
func (p Profile) BirthYear() int {
	raw := strings.TrimSpace(p.Birthdate)
	if raw == "" {
		return 0
	}
	// "Month Day, Year" keeps the year after the last comma.
	if idx := strings.LastIndex(raw, ","); idx >= 0 {
		raw = raw[idx+1:]
	}
	for _, field := range strings.FieldsFunc(raw, func(r rune) bool {
		return r < '0' || r > '9'
	}) {
		if len(field) == 4 {
			year, err := strconv.Atoi(field)
			if err == nil {
				return year
			}
		}
	}
	return 0
}
