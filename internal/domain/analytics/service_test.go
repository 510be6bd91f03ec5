package analytics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/lumen/internal/kvstore"
)

func newTestService(t *testing.T) (*Service, *kvstore.SQLite) {
	t.Helper()
	kv, err := kvstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(kv, logger), kv
}

func TestRecordActivityUpdatesAllBuckets(t *testing.T) {
	svc, kv := newTestService(t)
	ctx := context.Background()
	svc.now = func() time.Time { return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC) }

	svc.RecordActivity(ctx, "u1", Event{Type: EventTaskComplete})
	svc.RecordActivity(ctx, "u1", Event{Type: EventCapture})
	svc.RecordActivity(ctx, "u1", Event{Type: EventCapture})

	var daily, weekly, monthly Rollup
	require.NoError(t, kv.Get(ctx, kvstore.UserKey("u1", "analytics", "daily", "2026-08-25"), &daily))
	require.NoError(t, kv.Get(ctx, kvstore.UserKey("u1", "analytics", "weekly", "2026-W35"), &weekly))
	require.NoError(t, kv.Get(ctx, kvstore.UserKey("u1", "analytics", "monthly", "2026-08"), &monthly))

	for _, r := range []Rollup{daily, weekly, monthly} {
		assert.Equal(t, 1, r.TasksCompleted)
		assert.Equal(t, 2, r.CaptureCount)
	}
}

func TestRecordActivityNeverFails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Malformed metadata shapes must be absorbed silently.
	require.NotPanics(t, func() {
		svc.RecordActivity(ctx, "u1", Event{Type: EventFocusSession, Metadata: map[string]any{"duration": "ninety"}})
		svc.RecordActivity(ctx, "u1", Event{Type: EventMeeting, Metadata: nil})
		svc.RecordActivity(ctx, "u1", Event{Type: EventMeeting, Metadata: map[string]any{"duration": []any{1, 2}}})
		svc.RecordActivity(ctx, "u1", Event{Type: "nonsense"})
		svc.RecordActivity(ctx, "", Event{})
	})
}

func TestFocusScoreFormula(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	svc.RecordActivity(ctx, "u1", Event{Type: EventTaskCreated})
	svc.RecordActivity(ctx, "u1", Event{Type: EventTaskCreated})
	svc.RecordActivity(ctx, "u1", Event{Type: EventTaskComplete})
	svc.RecordActivity(ctx, "u1", Event{Type: EventMeeting, Metadata: map[string]any{"duration": float64(30)}})
	svc.RecordActivity(ctx, "u1", Event{Type: EventFocusSession, Metadata: map[string]any{"duration": float64(90)}})

	r, err := svc.DailyRollup(ctx, "u1", day)
	require.NoError(t, err)
	// 100 * (0.6*90/120 + 0.4*1/2) = 65
	assert.Equal(t, 65, r.FocusScore)
	assert.Equal(t, 90, r.DeepWorkTime)
	assert.Equal(t, 30, r.MeetingTime)
}

func TestFocusScoreOnlyRecomputedOnFocusSessions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	svc.RecordActivity(ctx, "u1", Event{Type: EventFocusSession, Metadata: map[string]any{"duration": float64(60)}})
	r, err := svc.DailyRollup(ctx, "u1", day)
	require.NoError(t, err)
	scoreAfterFocus := r.FocusScore

	// Completing tasks changes an input of the score but not the score itself.
	svc.RecordActivity(ctx, "u1", Event{Type: EventTaskComplete})
	r, err = svc.DailyRollup(ctx, "u1", day)
	require.NoError(t, err)
	assert.Equal(t, scoreAfterFocus, r.FocusScore)
}

func TestTrendClassification(t *testing.T) {
	tests := []struct {
		name   string
		points []float64
		want   string
	}{
		{"rising", []float64{10, 10, 10, 10, 10, 10, 20, 20, 20}, "up"},
		{"falling", []float64{20, 20, 20, 10, 10, 10, 10, 10, 10}, "down"},
		{"constant", []float64{15, 15, 15, 15, 15, 15, 15, 15, 15}, "stable"},
		{"small move stays stable", []float64{100, 100, 100, 100, 100, 100, 105, 105, 105}, "stable"},
		{"single point", []float64{42}, "stable"},
		{"empty", nil, "stable"},
		{"from zero", []float64{0, 0, 0, 5, 5, 5}, "up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trend(tt.points))
		})
	}
}

func TestSummary(t *testing.T) {
	svc, kv := newTestService(t)
	ctx := context.Background()
	day := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	svc.RecordActivity(ctx, "u1", Event{Type: EventTaskComplete})
	svc.RecordActivity(ctx, "u1", Event{Type: EventTaskComplete})

	// Captures are recounted from the store, not read from the rollup.
	require.NoError(t, kv.Put(ctx, kvstore.UserKey("u1", "capture", "c1"), map[string]any{"id": "c1"}))
	require.NoError(t, kv.Put(ctx, kvstore.UserKey("u1", "capture", "c2"), map[string]any{"id": "c2"}))
	require.NoError(t, kv.Put(ctx, kvstore.UserKey("u1", "capture", "c3"), map[string]any{"id": "c3"}))

	require.NoError(t, kv.Put(ctx, kvstore.UserKey("u1", "project", "p1"), map[string]any{"status": "active"}))
	require.NoError(t, kv.Put(ctx, kvstore.UserKey("u1", "project", "p2"), map[string]any{"status": "archived"}))

	summary, err := svc.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TasksCompletedToday)
	assert.Equal(t, 3, summary.TotalCaptures)
	assert.Equal(t, 1, summary.ActiveProjects)
	assert.Contains(t, summary.Trends, "focusScore")
	assert.Contains(t, summary.Trends, "tasksCompleted")
}

func TestIncrementCaptureCounter(t *testing.T) {
	svc, kv := newTestService(t)
	ctx := context.Background()
	svc.now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }

	svc.IncrementCaptureCounter(ctx, "u1", "note")
	svc.IncrementCaptureCounter(ctx, "u1", "note")
	svc.IncrementCaptureCounter(ctx, "u1", "email")

	var counter struct {
		Count int `json:"count"`
	}
	require.NoError(t, kv.Get(ctx, kvstore.UserKey("u1", "counters", "capture", "note", "2026-08-25"), &counter))
	assert.Equal(t, 2, counter.Count)
}

func TestInsightsAlwaysReturnsSomething(t *testing.T) {
	svc, _ := newTestService(t)

	insights, err := svc.Insights(context.Background(), "u1")
	require.NoError(t, err)
	require.NotEmpty(t, insights)
}
