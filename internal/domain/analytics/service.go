package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mbecker/lumen/internal/kvstore"
)

// Service folds activity events into daily/weekly/monthly rollups and
// derives dashboard summaries from them.
type Service struct {
	kv     kvstore.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates an analytics service.
func NewService(kv kvstore.Store, logger *slog.Logger) *Service {
	return &Service{kv: kv, logger: logger, now: time.Now}
}

// RecordActivity updates the three rollup buckets for the event. It is
// fire-and-forget: failures are logged and swallowed so it can never fail
// the caller's primary operation.
func (s *Service) RecordActivity(ctx context.Context, userID string, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recording activity panicked", "user", userID, "panic", r)
		}
	}()

	ts := ev.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	for _, key := range s.rollupKeys(userID, ts) {
		if err := s.applyEvent(ctx, key, ev); err != nil {
			s.logger.Warn("recording activity failed",
				"user", userID, "type", ev.Type, "key", key, "error", err)
		}
	}
}

// IncrementCaptureCounter bumps the per-type/per-day capture counter.
// Best-effort like RecordActivity.
func (s *Service) IncrementCaptureCounter(ctx context.Context, userID, captureType string) {
	date := s.now().Format("2006-01-02")
	key := kvstore.UserKey(userID, "counters", "capture", captureType, date)

	var counter struct {
		Count int `json:"count"`
	}
	if err := s.kv.Get(ctx, key, &counter); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		s.logger.Warn("reading capture counter failed", "key", key, "error", err)
		return
	}
	counter.Count++
	if err := s.kv.Put(ctx, key, counter); err != nil {
		s.logger.Warn("writing capture counter failed", "key", key, "error", err)
	}
}

// rollupKeys returns the daily, ISO-week, and monthly bucket keys for ts.
func (s *Service) rollupKeys(userID string, ts time.Time) []string {
	year, week := ts.ISOWeek()
	return []string{
		kvstore.UserKey(userID, "analytics", "daily", ts.Format("2006-01-02")),
		kvstore.UserKey(userID, "analytics", "weekly", fmt.Sprintf("%d-W%02d", year, week)),
		kvstore.UserKey(userID, "analytics", "monthly", ts.Format("2006-01")),
	}
}

// applyEvent is an unguarded read-modify-write of one rollup bucket.
func (s *Service) applyEvent(ctx context.Context, key string, ev Event) error {
	var r Rollup
	if err := s.kv.Get(ctx, key, &r); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return fmt.Errorf("loading rollup: %w", err)
	}

	switch ev.Type {
	case EventTaskComplete:
		r.TasksCompleted++
	case EventTaskCreated:
		r.TasksCreated++
	case EventCapture:
		r.CaptureCount++
	case EventFocusSession:
		r.DeepWorkTime += durationMinutes(ev.Metadata)
		// The score is only refreshed here; a capture-only or meeting-only
		// day keeps showing the stale value.
		r.FocusScore = focusScore(r)
	case EventMeeting:
		r.MeetingTime += durationMinutes(ev.Metadata)
	case EventIntegrationSync:
		// counted via itemsProcessed on the integration record
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}

	if err := s.kv.Put(ctx, key, r); err != nil {
		return fmt.Errorf("storing rollup: %w", err)
	}
	return nil
}

// durationMinutes reads a numeric "duration" from event metadata, tolerating
// any malformed shape.
func durationMinutes(metadata map[string]any) int {
	if metadata == nil {
		return 0
	}
	switch v := metadata["duration"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// focusScore blends deep-work share and task completion rate.
func focusScore(r Rollup) int {
	var workRatio float64
	if total := r.DeepWorkTime + r.MeetingTime; total > 0 {
		workRatio = float64(r.DeepWorkTime) / float64(total)
	}
	created := r.TasksCreated
	if created < 1 {
		created = 1
	}
	completionRatio := float64(r.TasksCompleted) / float64(created)

	return int(math.Round(100 * (0.6*workRatio + 0.4*completionRatio)))
}

// DailyRollup returns the rollup for one day, zero-valued when absent.
func (s *Service) DailyRollup(ctx context.Context, userID string, day time.Time) (Rollup, error) {
	var r Rollup
	key := kvstore.UserKey(userID, "analytics", "daily", day.Format("2006-01-02"))
	if err := s.kv.Get(ctx, key, &r); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return Rollup{}, nil
		}
		return Rollup{}, fmt.Errorf("loading daily rollup: %w", err)
	}
	return r, nil
}

// Summary derives the dashboard view: today's completed tasks, the 7-day
// mean focus score, the all-time capture count (recounted by prefix scan,
// deliberately not the rollup counter), and the active project count.
func (s *Service) Summary(ctx context.Context, userID string) (*DashboardSummary, error) {
	today := s.now()

	todayRollup, err := s.DailyRollup(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	var focusSum, focusDays int
	recent := make([]float64, 0, trendWindow)
	for i := trendWindow - 1; i >= 0; i-- {
		r, err := s.DailyRollup(ctx, userID, today.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		recent = append(recent, float64(r.FocusScore))
		if i < 7 && r.FocusScore > 0 {
			focusSum += r.FocusScore
			focusDays++
		}
	}

	focusAvg := 0
	if focusDays > 0 {
		focusAvg = focusSum / focusDays
	}

	captures, err := s.kv.Count(ctx, kvstore.UserPrefix(userID, "capture"))
	if err != nil {
		return nil, fmt.Errorf("counting captures: %w", err)
	}

	active, err := s.countActiveProjects(ctx, userID)
	if err != nil {
		return nil, err
	}

	trends, err := s.WeeklyTrends(ctx, userID)
	if err != nil {
		return nil, err
	}
	trends["focusScore"] = Trend(recent)

	return &DashboardSummary{
		TasksCompletedToday: todayRollup.TasksCompleted,
		FocusScore7Day:      focusAvg,
		TotalCaptures:       captures,
		ActiveProjects:      active,
		Trends:              trends,
	}, nil
}

// countActiveProjects scans project documents directly; the aggregator keeps
// no authoritative project counter.
func (s *Service) countActiveProjects(ctx context.Context, userID string) (int, error) {
	entries, err := s.kv.List(ctx, kvstore.UserPrefix(userID, "project"))
	if err != nil {
		return 0, fmt.Errorf("scanning projects: %w", err)
	}

	active := 0
	for _, e := range entries {
		var doc struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(e.Value, &doc); err != nil {
			continue
		}
		if doc.Status == "active" {
			active++
		}
	}
	return active, nil
}
