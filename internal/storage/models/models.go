package models

import "time"

type Session struct {
	ID         string
	Token      string
	UserID     string
	TargetRole string
	Status     string
	StartedAt  time.Time
	EndedAt    *time.Time
}

// ResponseRecord is the engine's local copy of a submitted answer. It feeds
// the evidence counters in the gap analyzer when the upstream history is
// empty.
type ResponseRecord struct {
	ID               string
	SessionID        string
	QuestionID       string
	QuestionType     string
	ResponseText     string
	ResponseChoice   string
	ResponseScale    *int
	ThinkTimeSeconds int
	TotalTimeSeconds int
	CharCount        int
	WordCount        int
	TypingSpeedWpm   *float64
	EditCount        int
	PasteDetected    bool
	ConfidenceLevel  float64
	CreatedAt        time.Time
}

type GapReport struct {
	ID         string
	SessionID  string
	TargetRole string
	Payload    string
	CreatedAt  time.Time
}

type SuggestionRecord struct {
	ID        string
	SessionID string
	Source    string
	Content   string
	CreatedAt time.Time
}
