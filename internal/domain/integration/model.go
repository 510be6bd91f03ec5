package integration

import "time"

// Status is the connection state of an integration.
type Status string

const (
	StatusConnected Status = "connected"
	StatusError     Status = "error"
	StatusSyncing   Status = "syncing"
)

// Known external services. Each has a synthetic item generator; none talks to
// a real API.
const (
	ServiceGmail          = "gmail"
	ServiceSlack          = "slack"
	ServiceGoogleCalendar = "google-calendar"
	ServiceGitHub         = "github"
)

// Integration is a stored connection to an external service. Credentials are
// an opaque blob kept verbatim; they are never interpreted.
type Integration struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Service        string         `json:"service"`
	Status         Status         `json:"status"`
	Credentials    map[string]any `json:"credentials,omitempty"`
	LastSync       *time.Time     `json:"lastSync,omitempty"`
	ItemsProcessed int            `json:"itemsProcessed"`
	Enabled        bool           `json:"enabled"`
	Settings       map[string]any `json:"settings,omitempty"`
	CreatedAt      time.Time      `json:"created"`
	UpdatedAt      time.Time      `json:"updated"`
}

// SyncResult reports the outcome of one sync cycle.
type SyncResult struct {
	IntegrationID string    `json:"integrationId"`
	Service       string    `json:"service"`
	ItemsSynced   int       `json:"itemsSynced"`
	ItemIDs       []string  `json:"itemIds"`
	SyncedAt      time.Time `json:"syncedAt"`
}
