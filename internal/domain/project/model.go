package project

import "time"

// Status is the lifecycle state of a project. Projects are never hard
// deleted; "delete" transitions to StatusArchived.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is a known project status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused, StatusArchived:
		return true
	}
	return false
}

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Task is stored once, keyed by its own id. Projects reference tasks by id;
// there is no embedded duplicate copy to keep in sync.
type Task struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	ProjectID       string     `json:"projectId,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          TaskStatus `json:"status"`
	Priority        string     `json:"priority"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	SourceCaptureID string     `json:"sourceCaptureId,omitempty"`
	CreatedAt       time.Time  `json:"created"`
	UpdatedAt       time.Time  `json:"updated"`
}

// Project is the stored project document. Progress is not persisted; it is
// derived from the referenced tasks on every read.
type Project struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      Status         `json:"status"`
	Priority    string         `json:"priority"`
	TaskIDs     []string       `json:"taskIds"`
	Team        []string       `json:"team,omitempty"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	CreatedAt   time.Time      `json:"created"`
	UpdatedAt   time.Time      `json:"updated"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// View is a project with its tasks resolved and progress computed.
type View struct {
	Project
	Progress int    `json:"progress"`
	Tasks    []Task `json:"tasks"`
}
