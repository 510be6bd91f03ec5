package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/lumen/internal/domain/analytics"
)

type fakeGateway struct {
	chatReply     string
	chatErr       error
	insightsReply string
	insightsErr   error
}

func (f *fakeGateway) Chat(_ context.Context, _, _ string) (string, error) {
	return f.chatReply, f.chatErr
}

func (f *fakeGateway) Insights(_ context.Context, _ string) (string, error) {
	return f.insightsReply, f.insightsErr
}

type fakeMetrics struct {
	rollup   analytics.Rollup
	trends   map[string]string
	insights []string
}

func (f *fakeMetrics) DailyRollup(_ context.Context, _ string, _ time.Time) (analytics.Rollup, error) {
	return f.rollup, nil
}

func (f *fakeMetrics) WeeklyTrends(_ context.Context, _ string) (map[string]string, error) {
	return f.trends, nil
}

func (f *fakeMetrics) Insights(_ context.Context, _ string) ([]string, error) {
	return f.insights, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChatUsesGatewayReply(t *testing.T) {
	svc := NewService(&fakeGateway{chatReply: "Here is your day."}, &fakeMetrics{}, testLogger())

	reply, err := svc.Chat(context.Background(), "u1", "how are my tasks?", "")
	require.NoError(t, err)

	assert.Equal(t, "Here is your day.", reply.Message)
	assert.Contains(t, reply.Suggestions, "List overdue tasks")
	assert.Contains(t, reply.Actions, "create_task")
}

func TestChatFallsBackWhenGatewayFails(t *testing.T) {
	svc := NewService(&fakeGateway{chatErr: errors.New("down")}, &fakeMetrics{}, testLogger())

	reply, err := svc.Chat(context.Background(), "u1", "tell me about my projects", "")
	require.NoError(t, err)

	assert.Contains(t, reply.Message, "project")
	assert.Contains(t, reply.Suggestions, "Review project progress")
}

func TestChatWithoutGateway(t *testing.T) {
	svc := NewService(nil, &fakeMetrics{}, testLogger())

	reply, err := svc.Chat(context.Background(), "u1", "hello", "")
	require.NoError(t, err)

	assert.NotEmpty(t, reply.Message)
	assert.NotEmpty(t, reply.Suggestions)
	assert.NotNil(t, reply.Actions)
}

func TestInsightsFromGateway(t *testing.T) {
	gateway := &fakeGateway{insightsReply: "- You completed more tasks than last week.\n- Deep work time is trending up."}
	metrics := &fakeMetrics{trends: map[string]string{"tasksCompleted": "up"}}
	svc := NewService(gateway, metrics, testLogger())

	report, err := svc.Insights(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, report.Insights, 2)
	assert.Equal(t, "You completed more tasks than last week.", report.Insights[0])
	assert.Equal(t, "up", report.Trends["tasksCompleted"])
}

func TestInsightsFallBackToHeuristics(t *testing.T) {
	gateway := &fakeGateway{insightsErr: errors.New("down")}
	metrics := &fakeMetrics{
		trends:   map[string]string{"captureCount": "stable"},
		insights: []string{"Steady capture habit this week."},
	}
	svc := NewService(gateway, metrics, testLogger())

	report, err := svc.Insights(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, []string{"Steady capture habit this week."}, report.Insights)
	assert.Equal(t, "stable", report.Trends["captureCount"])
}
