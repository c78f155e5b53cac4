// internal/models/export.go
package models

import "time"

// ExportSession is one session's stories and photo metadata in the
// downloadable biography document.
type ExportSession struct {
	Title     string            `json:"title"`
	Questions map[string]Answer `json:"questions"`
	Images    []ImageMeta       `json:"images,omitempty"`
}

// ExportStats summarizes the export payload.
type ExportStats struct {
	TotalSessions int `json:"total_sessions"`
	TotalStories  int `json:"total_stories"`
	TotalImages   int `json:"total_images"`
}

// ExportDocument is the full biography download object.
type ExportDocument struct {
	User        string                   `json:"user"`
	UserName    string                   `json:"user_name"`
	UserProfile Profile                  `json:"user_profile"`
	Stories     map[string]ExportSession `json:"stories"`
	ExportDate  time.Time                `json:"export_date"`
	Stats       ExportStats              `json:"stats"`
}
