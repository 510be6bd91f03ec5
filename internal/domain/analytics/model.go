package analytics

import "time"

// EventType represents the type of recorded activity event.
type EventType string

const (
	EventTaskComplete    EventType = "task_complete"
	EventTaskCreated     EventType = "task_created"
	EventCapture         EventType = "capture"
	EventFocusSession    EventType = "focus_session"
	EventMeeting         EventType = "meeting"
	EventIntegrationSync EventType = "integration_sync"
)

// Event is one activity occurrence. Metadata is caller-supplied and may be
// arbitrarily malformed; recording must cope.
type Event struct {
	Type      EventType      `json:"type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp,omitempty"`
}

// Rollup is a time-bucketed aggregate of activity counters. Counters are
// only ever incremented by events, never recomputed from source data, so a
// missed event drifts the rollup permanently.
type Rollup struct {
	TasksCompleted int `json:"tasksCompleted"`
	TasksCreated   int `json:"tasksCreated"`
	FocusScore     int `json:"focusScore"`
	CaptureCount   int `json:"captureCount"`
	ActiveProjects int `json:"activeProjects"`
	MeetingTime    int `json:"meetingTime"`
	DeepWorkTime   int `json:"deepWorkTime"`
}

// DashboardSummary is the derived view served to the dashboard.
type DashboardSummary struct {
	TasksCompletedToday int            `json:"tasksCompletedToday"`
	FocusScore7Day      int            `json:"focusScore7Day"`
	TotalCaptures       int            `json:"totalCaptures"`
	ActiveProjects      int            `json:"activeProjects"`
	Trends              map[string]string `json:"trends"`
}
