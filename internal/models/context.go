// internal/models/context.go
package models

// HistoricalEvent is one entry from the events collaborator, already
// bucketed by decade and annotated with the user's approximate age.
type HistoricalEvent struct {
	Event       string `json:"event"`
	YearRange   string `json:"year_range"`
	Category    string `json:"category,omitempty"`
	Region      string `json:"region,omitempty"`
	Description string `json:"description,omitempty"`
	ApproxAge   int    `json:"approx_age"`
}

// ImageMeta is the metadata record for one uploaded photo. Image bytes
// and thumbnailing are out of scope; only metadata is tracked.
type ImageMeta struct {
	ID               string `json:"id"`
	OriginalFilename string `json:"original_filename"`
	Description      string `json:"description,omitempty"`
	UploadDate       string `json:"upload_date,omitempty"`
	Dimensions       string `json:"dimensions,omitempty"`
	SessionID        int    `json:"session_id"`
}

// PhotoStoryQuestions pairs one selected photo with the interview
// questions sampled for it.
type PhotoStoryQuestions struct {
	Image     ImageMeta `json:"image"`
	Questions []string  `json:"questions"`
}

// ContextBundle carries every prompt fragment source for one build.
// It is recomputed from the collaborators on each prompt build and
// never persisted.
type ContextBundle struct {
	BirthYear      int
	Events         []HistoricalEvent
	Images         []ImageMeta
	PhotoStoryMode bool
	SelectedPhotos []PhotoStoryQuestions
}
