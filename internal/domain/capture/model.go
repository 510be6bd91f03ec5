package capture

import (
	"time"

	"github.com/mbecker/lumen/internal/analyzer"
)

// Type is the declared kind of a capture.
type Type string

const (
	TypeEmail Type = "email"
	TypeNote  Type = "note"
	TypeTask  Type = "task"
	TypeIdea  Type = "idea"
	TypeLink  Type = "link"
	TypeFile  Type = "file"
	TypeVoice Type = "voice"
)

// Valid reports whether t is a known capture type.
func (t Type) Valid() bool {
	switch t {
	case TypeEmail, TypeNote, TypeTask, TypeIdea, TypeLink, TypeFile, TypeVoice:
		return true
	}
	return false
}

// Processed is the derived structured analysis of a capture.
type Processed struct {
	Summary          string            `json:"summary"`
	Category         string            `json:"category"`
	Priority         string            `json:"priority"`
	SuggestedActions []string          `json:"suggestedActions"`
	Entities         analyzer.Entities `json:"entities"`
}

// Capture is a unit of raw user-submitted content plus its derived analysis.
// RawContent is immutable after creation; Processed and Tags may be updated.
type Capture struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	Type          Type           `json:"type"`
	RawContent    string         `json:"rawContent"`
	Source        string         `json:"source,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Processed     Processed      `json:"processed"`
	Tags          []string       `json:"tags"`
	Timestamp     time.Time      `json:"timestamp"`
	ProcessedFlag bool           `json:"processedFlag"`
}
