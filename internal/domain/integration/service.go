package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/mbecker/lumen/internal/domain/analytics"
	"github.com/mbecker/lumen/internal/domain/capture"
	"github.com/mbecker/lumen/internal/kvstore"
)

// CaptureCreator ingests synthetic items produced by a sync cycle.
type CaptureCreator interface {
	Create(ctx context.Context, userID string, req capture.CreateRequest) (*capture.Capture, error)
}

// Recorder receives best-effort activity events.
type Recorder interface {
	RecordActivity(ctx context.Context, userID string, ev analytics.Event)
}

// Service manages integration connections and their mock sync cycles. Every
// "sync" fabricates a small batch of items and feeds them through the capture
// pipeline; no external API is contacted.
type Service struct {
	kv       kvstore.Store
	captures CaptureCreator
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates an integration service. captures and recorder may be nil.
func NewService(kv kvstore.Store, captures CaptureCreator, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{kv: kv, captures: captures, recorder: recorder, logger: logger, now: time.Now}
}

// syncItem is one fabricated inbound item.
type syncItem struct {
	typ     capture.Type
	content string
}

// generators fabricate per-service item batches. Item text is static; the
// variety comes from which services are connected.
var generators = map[string][]syncItem{
	ServiceGmail: {
		{capture.TypeEmail, "Quarterly review scheduled for next week. Please confirm attendance."},
		{capture.TypeEmail, "Invoice #4821 is due Friday. Need to approve the payment."},
	},
	ServiceSlack: {
		{capture.TypeNote, "Team decided to move the standup to 9:30. Update the calendar."},
		{capture.TypeNote, "Reminder: design review thread needs your comments."},
	},
	ServiceGoogleCalendar: {
		{capture.TypeNote, "Meeting with the client tomorrow at 2pm to discuss the project roadmap."},
	},
	ServiceGitHub: {
		{capture.TypeTask, "Need to review pull request #112 before the release."},
		{capture.TypeTask, "Must fix the flaky deadline check in the scheduler tests."},
	},
}

// Connect probes the service and stores a connected integration. The probe is
// a stand-in: it only checks the service is known.
func (s *Service) Connect(ctx context.Context, userID, service string, credentials, settings map[string]any) (*Integration, error) {
	if _, ok := generators[service]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}

	now := s.now()
	integ := Integration{
		ID:          uuid.NewString(),
		UserID:      userID,
		Service:     service,
		Status:      StatusConnected,
		Credentials: credentials,
		Enabled:     true,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.kv.Put(ctx, s.key(userID, integ.ID), integ); err != nil {
		return nil, fmt.Errorf("storing integration: %w", err)
	}
	return &integ, nil
}

// Get fetches an integration by id.
func (s *Service) Get(ctx context.Context, userID, id string) (*Integration, error) {
	var integ Integration
	if err := s.kv.Get(ctx, s.key(userID, id), &integ); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("getting integration: %w", err)
	}
	return &integ, nil
}

// List returns the user's integrations, oldest first.
func (s *Service) List(ctx context.Context, userID string) ([]Integration, error) {
	entries, err := s.kv.List(ctx, kvstore.UserPrefix(userID, "integration"))
	if err != nil {
		return nil, fmt.Errorf("listing integrations: %w", err)
	}

	integrations := make([]Integration, 0, len(entries))
	for _, e := range entries {
		var integ Integration
		if err := json.Unmarshal(e.Value, &integ); err != nil {
			s.logger.Warn("skipping undecodable integration", "key", e.Key, "error", err)
			continue
		}
		integrations = append(integrations, integ)
	}

	sort.Slice(integrations, func(i, j int) bool {
		return integrations[i].CreatedAt.Before(integrations[j].CreatedAt)
	})
	return integrations, nil
}

// SetEnabled toggles an integration on or off.
func (s *Service) SetEnabled(ctx context.Context, userID, id string, enabled bool) (*Integration, error) {
	integ, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	integ.Enabled = enabled
	integ.UpdatedAt = s.now()
	if err := s.kv.Put(ctx, s.key(userID, id), integ); err != nil {
		return nil, fmt.Errorf("updating integration: %w", err)
	}
	return integ, nil
}

// Sync runs one mock sync cycle: fabricate items, feed them through the
// capture pipeline, and update the integration's counters. Item failures are
// logged and skipped; the cycle reports what actually landed.
func (s *Service) Sync(ctx context.Context, userID, id string) (*SyncResult, error) {
	integ, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !integ.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrDisabled, integ.Service)
	}

	items, ok := generators[integ.Service]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, integ.Service)
	}

	integ.Status = StatusSyncing
	integ.UpdatedAt = s.now()
	if err := s.kv.Put(ctx, s.key(userID, id), integ); err != nil {
		return nil, fmt.Errorf("marking integration syncing: %w", err)
	}

	result := &SyncResult{
		IntegrationID: integ.ID,
		Service:       integ.Service,
		ItemIDs:       []string{},
	}
	failed := 0
	for _, item := range items {
		itemID := ulid.Make().String()
		if s.captures != nil {
			_, err := s.captures.Create(ctx, userID, capture.CreateRequest{
				Type:    item.typ,
				Content: item.content,
				Source:  integ.Service,
				Metadata: map[string]any{
					"integrationId": integ.ID,
					"itemId":        itemID,
				},
			})
			if err != nil {
				s.logger.Warn("sync item ingestion failed", "service", integ.Service, "item", itemID, "error", err)
				failed++
				continue
			}
		}
		result.ItemsSynced++
		result.ItemIDs = append(result.ItemIDs, itemID)
	}

	// Item failures leave the integration in error status; the partial
	// result is still returned. The next clean cycle restores connected.
	now := s.now()
	result.SyncedAt = now
	integ.Status = StatusConnected
	if failed > 0 {
		integ.Status = StatusError
	}
	integ.LastSync = &now
	integ.ItemsProcessed += result.ItemsSynced
	integ.UpdatedAt = now
	if err := s.kv.Put(ctx, s.key(userID, id), integ); err != nil {
		return nil, fmt.Errorf("recording sync result: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordActivity(ctx, userID, analytics.Event{
			Type: analytics.EventIntegrationSync,
			Metadata: map[string]any{
				"service": integ.Service,
				"items":   result.ItemsSynced,
			},
		})
	}

	return result, nil
}

// SyncAll syncs every enabled integration for the user. Per-integration
// failures are collected into the result map, not propagated.
func (s *Service) SyncAll(ctx context.Context, userID string) (map[string]*SyncResult, error) {
	integrations, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make(map[string]*SyncResult, len(integrations))
	for _, integ := range integrations {
		if !integ.Enabled {
			continue
		}
		res, err := s.Sync(ctx, userID, integ.ID)
		if err != nil {
			s.logger.Warn("integration sync failed", "service", integ.Service, "error", err)
			continue
		}
		results[integ.Service] = res
	}
	return results, nil
}

// Disconnect removes the integration permanently. Unlike projects this is a
// hard delete.
func (s *Service) Disconnect(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, s.key(userID, id)); err != nil {
		return fmt.Errorf("deleting integration: %w", err)
	}
	return nil
}

func (s *Service) key(userID, id string) string {
	return kvstore.UserKey(userID, "integration", id)
}
