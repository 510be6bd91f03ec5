// Package assistant answers conversational and insight requests, preferring
// the language-model gateway and degrading to canned heuristics when the
// gateway is unavailable.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mbecker/lumen/internal/domain/analytics"
)

// Chatter is the conversational slice of the language-model gateway.
type Chatter interface {
	Chat(ctx context.Context, message, contextNote string) (string, error)
	Insights(ctx context.Context, metrics string) (string, error)
}

// Metrics supplies the activity data behind insight generation.
type Metrics interface {
	DailyRollup(ctx context.Context, userID string, day time.Time) (analytics.Rollup, error)
	WeeklyTrends(ctx context.Context, userID string) (map[string]string, error)
	Insights(ctx context.Context, userID string) ([]string, error)
}

// Reply is a chat answer plus follow-up affordances for the client.
type Reply struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	Actions     []string `json:"actions"`
}

// Service implements the assistant endpoints.
type Service struct {
	gateway Chatter
	metrics Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates an assistant. gateway may be nil; every reply then comes
// from the canned fallback.
func NewService(gateway Chatter, metrics Metrics, logger *slog.Logger) *Service {
	return &Service{gateway: gateway, metrics: metrics, logger: logger, now: time.Now}
}

// Chat answers a user message. The gateway reply is used verbatim when
// available; otherwise a keyword-matched canned answer takes its place.
// Suggestions and actions are always locally derived.
func (s *Service) Chat(ctx context.Context, userID, message, contextNote string) (*Reply, error) {
	answer := ""
	if s.gateway != nil {
		reply, err := s.gateway.Chat(ctx, message, contextNote)
		if err != nil {
			s.logger.Debug("gateway chat unavailable, using canned reply", "error", err)
		} else {
			answer = reply
		}
	}
	if answer == "" {
		answer = cannedReply(message)
	}

	return &Reply{
		Message:     answer,
		Suggestions: suggestionsFor(message),
		Actions:     actionsFor(message),
	}, nil
}

// InsightReport bundles generated insights with the trend data behind them.
type InsightReport struct {
	Insights []string          `json:"insights"`
	Trends   map[string]string `json:"trends"`
}

// Insights produces productivity observations from the last week of activity.
// The gateway gets first shot at phrasing them; the heuristic sentences from
// the analytics service are the fallback.
func (s *Service) Insights(ctx context.Context, userID string) (*InsightReport, error) {
	trends, err := s.metrics.WeeklyTrends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading weekly trends: %w", err)
	}

	if s.gateway != nil {
		rollup, err := s.metrics.DailyRollup(ctx, userID, s.now())
		if err == nil {
			if generated := s.gatewayInsights(ctx, rollup, trends); len(generated) > 0 {
				return &InsightReport{Insights: generated, Trends: trends}, nil
			}
		}
	}

	insights, err := s.metrics.Insights(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("deriving insights: %w", err)
	}
	return &InsightReport{Insights: insights, Trends: trends}, nil
}

// gatewayInsights serializes the metrics for the model and splits its reply
// into individual lines. Empty on any failure.
func (s *Service) gatewayInsights(ctx context.Context, rollup analytics.Rollup, trends map[string]string) []string {
	payload, err := json.Marshal(struct {
		Today  analytics.Rollup  `json:"today"`
		Trends map[string]string `json:"trends"`
	}{rollup, trends})
	if err != nil {
		return nil
	}

	reply, err := s.gateway.Insights(ctx, string(payload))
	if err != nil {
		s.logger.Debug("gateway insights unavailable, using heuristics", "error", err)
		return nil
	}

	var insights []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		if line != "" {
			insights = append(insights, line)
		}
	}
	return insights
}

func cannedReply(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "task"):
		return "You can review your open tasks on the dashboard. Completing the highest-priority ones first keeps your focus score up."
	case strings.Contains(lower, "project"):
		return "Your projects derive their progress from task completion, so closing tasks moves the needle directly."
	case strings.Contains(lower, "focus"):
		return "Focus score blends deep-work time against meeting time with task throughput. Longer uninterrupted sessions raise it."
	case strings.Contains(lower, "capture"):
		return "Anything you capture is analyzed and tagged automatically. Extracted task phrases become standalone tasks."
	default:
		return "I can help with your tasks, projects, captures, and focus habits. What would you like to look at?"
	}
}

func suggestionsFor(message string) []string {
	lower := strings.ToLower(message)
	suggestions := []string{"Show today's dashboard"}
	if strings.Contains(lower, "task") || strings.Contains(lower, "todo") {
		suggestions = append(suggestions, "List overdue tasks")
	}
	if strings.Contains(lower, "project") {
		suggestions = append(suggestions, "Review project progress")
	}
	if strings.Contains(lower, "meeting") || strings.Contains(lower, "calendar") {
		suggestions = append(suggestions, "Check scheduled events")
	}
	return suggestions
}

func actionsFor(message string) []string {
	lower := strings.ToLower(message)
	var actions []string
	if strings.Contains(lower, "capture") || strings.Contains(lower, "note") {
		actions = append(actions, "create_capture")
	}
	if strings.Contains(lower, "task") || strings.Contains(lower, "todo") {
		actions = append(actions, "create_task")
	}
	if strings.Contains(lower, "project") {
		actions = append(actions, "create_project")
	}
	if actions == nil {
		actions = []string{}
	}
	return actions
}
