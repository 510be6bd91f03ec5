package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mbecker/lumen/internal/analyzer"
	"github.com/mbecker/lumen/internal/domain/analytics"
	"github.com/mbecker/lumen/internal/kvstore"
	"github.com/mbecker/lumen/internal/llm"
)

// Classifier derives structured metadata through the language model.
type Classifier interface {
	Classify(ctx context.Context, text string) (*llm.Classification, error)
}

// Recorder receives best-effort activity events.
type Recorder interface {
	RecordActivity(ctx context.Context, userID string, ev analytics.Event)
	IncrementCaptureCounter(ctx context.Context, userID, captureType string)
}

// Scheduler creates calendar events for meeting captures.
type Scheduler interface {
	ScheduleEvent(ctx context.Context, userID, title string, dates []string) error
}

// TaskCreator turns extracted task phrases into standalone task records.
type TaskCreator interface {
	CreateTaskFromCapture(ctx context.Context, userID, title, captureID string) error
}

// Service orchestrates the capture pipeline: analyze, classify with
// heuristic fallback, persist, then dispatch side effects.
type Service struct {
	kv         kvstore.Store
	classifier Classifier
	recorder   Recorder
	calendar   Scheduler
	tasks      TaskCreator
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a capture service. classifier, calendar, and tasks may
// be nil; the pipeline degrades rather than failing.
func NewService(kv kvstore.Store, classifier Classifier, recorder Recorder, calendar Scheduler, tasks TaskCreator, logger *slog.Logger) *Service {
	return &Service{
		kv:         kv,
		classifier: classifier,
		recorder:   recorder,
		calendar:   calendar,
		tasks:      tasks,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateRequest describes one inbound capture.
type CreateRequest struct {
	Type     Type
	Content  string
	Source   string
	Metadata map[string]any
	Priority string
}

// Create runs the full pipeline for one raw input. The language-model call
// is best-effort; every structured field falls back to the heuristic
// analyzer individually. Side effects never abort the capture.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Capture, error) {
	typ := req.Type
	if typ == "" {
		typ = TypeNote
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown capture type %q", ErrInvalidInput, req.Type)
	}
	if req.Priority != "" && !validPriority(req.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}

	base := analyzer.Analyze(req.Content, string(typ))
	processed, tags := s.classifyWithFallback(ctx, req.Content, base)

	if req.Priority != "" {
		processed.Priority = req.Priority
	}

	now := s.now()
	c := &Capture{
		ID:            newID(now),
		UserID:        userID,
		Type:          typ,
		RawContent:    req.Content,
		Source:        req.Source,
		Metadata:      req.Metadata,
		Processed:     processed,
		Tags:          tags,
		Timestamp:     now,
		ProcessedFlag: true,
	}

	if err := s.kv.Put(ctx, s.key(userID, c.ID), c); err != nil {
		return nil, fmt.Errorf("storing capture: %w", err)
	}

	// Side effects are dispatched after persistence and are independently
	// best-effort; there is no queue and no retry.
	s.dispatchSideEffects(ctx, userID, c)

	return c, nil
}

// classifyWithFallback merges the gateway classification over the heuristic
// baseline field by field: a gateway value wins, an absent one falls back.
func (s *Service) classifyWithFallback(ctx context.Context, content string, base analyzer.Analysis) (Processed, []string) {
	processed := Processed{
		Summary:          base.Summary,
		Category:         base.Category,
		Priority:         base.Priority,
		SuggestedActions: base.SuggestedActions,
		Entities:         base.Entities,
	}
	tags := analyzer.Tags(content, base.Category, base.Priority)

	if s.classifier == nil {
		return processed, tags
	}

	cls, err := s.classifier.Classify(ctx, content)
	if err != nil {
		s.logger.Debug("classification unavailable, using heuristics", "error", err)
		return processed, tags
	}

	if cls.Summary != "" {
		processed.Summary = cls.Summary
	}
	if cls.Category != "" {
		processed.Category = cls.Category
	}
	if cls.Priority != "" {
		processed.Priority = cls.Priority
	}
	if len(cls.SuggestedActions) > 0 {
		processed.SuggestedActions = cls.SuggestedActions
	}
	if len(cls.Entities.People) > 0 {
		processed.Entities.People = cls.Entities.People
	}
	if len(cls.Entities.Dates) > 0 {
		processed.Entities.Dates = cls.Entities.Dates
	}
	if len(cls.Entities.Projects) > 0 {
		processed.Entities.Projects = cls.Entities.Projects
	}
	if len(cls.Entities.Tasks) > 0 {
		processed.Entities.Tasks = cls.Entities.Tasks
	}
	if len(cls.Tags) > 0 {
		tags = analyzer.Tags(content, processed.Category, processed.Priority)
		tags = mergeTags(tags, cls.Tags)
	}

	return processed, tags
}

func (s *Service) dispatchSideEffects(ctx context.Context, userID string, c *Capture) {
	if s.recorder != nil {
		s.recorder.IncrementCaptureCounter(ctx, userID, string(c.Type))
		s.recorder.RecordActivity(ctx, userID, analytics.Event{Type: analytics.EventCapture})
	}

	if s.calendar != nil && c.Processed.Category == "meeting" && len(c.Processed.Entities.Dates) > 0 {
		if err := s.calendar.ScheduleEvent(ctx, userID, c.Processed.Summary, c.Processed.Entities.Dates); err != nil {
			s.logger.Warn("calendar event creation failed", "capture", c.ID, "error", err)
		}
	}

	if s.tasks != nil {
		for _, phrase := range c.Processed.Entities.Tasks {
			if err := s.tasks.CreateTaskFromCapture(ctx, userID, phrase, c.ID); err != nil {
				s.logger.Warn("task creation from capture failed", "capture", c.ID, "error", err)
			}
		}
	}

	if len(c.Processed.Entities.Projects) > 0 {
		s.linkProjects(ctx, userID, c)
	}
}

// linkProjects records a soft link between the capture and the project names
// the model extracted. Names are not validated to exist.
func (s *Service) linkProjects(ctx context.Context, userID string, c *Capture) {
	link := struct {
		CaptureID string    `json:"captureId"`
		Projects  []string  `json:"projects"`
		LinkedAt  time.Time `json:"linkedAt"`
	}{c.ID, c.Processed.Entities.Projects, s.now()}

	key := kvstore.UserKey(userID, "capturelink", c.ID)
	if err := s.kv.Put(ctx, key, link); err != nil {
		s.logger.Warn("project linkage failed", "capture", c.ID, "error", err)
	}
}

// Get fetches a capture by id.
func (s *Service) Get(ctx context.Context, userID, id string) (*Capture, error) {
	var c Capture
	if err := s.kv.Get(ctx, s.key(userID, id), &c); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrCaptureNotFound
		}
		return nil, fmt.Errorf("getting capture: %w", err)
	}
	return &c, nil
}

// List returns the user's captures sorted by timestamp descending.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Capture, error) {
	entries, err := s.kv.List(ctx, kvstore.UserPrefix(userID, "capture"))
	if err != nil {
		return nil, fmt.Errorf("listing captures: %w", err)
	}

	captures := make([]Capture, 0, len(entries))
	for _, e := range entries {
		var c Capture
		if err := json.Unmarshal(e.Value, &c); err != nil {
			s.logger.Warn("skipping undecodable capture", "key", e.Key, "error", err)
			continue
		}
		captures = append(captures, c)
	}

	sort.Slice(captures, func(i, j int) bool {
		return captures[i].Timestamp.After(captures[j].Timestamp)
	})

	if limit > 0 && len(captures) > limit {
		captures = captures[:limit]
	}
	return captures, nil
}

// UpdateRequest carries the mutable fields of a capture. Nil fields are left
// untouched (shallow merge).
type UpdateRequest struct {
	Tags      []string
	Processed *Processed
	Metadata  map[string]any
}

// Update shallow-merges the request into the stored capture. RawContent and
// Type are immutable.
func (s *Service) Update(ctx context.Context, userID, id string, req UpdateRequest) (*Capture, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Tags != nil {
		c.Tags = req.Tags
	}
	if req.Processed != nil {
		c.Processed = *req.Processed
	}
	if req.Metadata != nil {
		c.Metadata = req.Metadata
	}

	if err := s.kv.Put(ctx, s.key(userID, id), c); err != nil {
		return nil, fmt.Errorf("updating capture: %w", err)
	}
	return c, nil
}

// Delete removes the capture permanently. Unlike projects, captures are hard
// deleted.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, s.key(userID, id)); err != nil {
		return fmt.Errorf("deleting capture: %w", err)
	}
	return nil
}

func (s *Service) key(userID, id string) string {
	return kvstore.UserKey(userID, "capture", id)
}

func validPriority(p string) bool {
	switch p {
	case analyzer.PriorityHigh, analyzer.PriorityMedium, analyzer.PriorityLow:
		return true
	}
	return false
}

func mergeTags(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, t := range base {
		seen[t] = true
	}
	for _, t := range extra {
		if len(base) >= 5 {
			break
		}
		if !seen[t] {
			seen[t] = true
			base = append(base, t)
		}
	}
	return base
}
