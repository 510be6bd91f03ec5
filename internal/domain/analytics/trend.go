package analytics

import (
	"context"
	"fmt"
)

// trendWindow is how many daily data points feed trend classification:
// the most recent three against the three before them.
const trendWindow = 9

// Trend classifies a series (oldest to newest) by comparing the mean of the
// most recent points (up to three) against the mean of everything before
// them. More than a 10% move either way breaks "stable". Fewer than two
// points is always "stable".
func Trend(points []float64) string {
	n := len(points)
	if n < 2 {
		return "stable"
	}

	k := n / 2
	if k > 3 {
		k = 3
	}
	recent := points[n-k:]
	previous := points[:n-k]

	recentMean := mean(recent)
	previousMean := mean(previous)
	if previousMean == 0 {
		if recentMean > 0 {
			return "up"
		}
		return "stable"
	}

	change := (recentMean - previousMean) / previousMean
	switch {
	case change > 0.10:
		return "up"
	case change < -0.10:
		return "down"
	default:
		return "stable"
	}
}

func mean(points []float64) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p
	}
	return sum / float64(len(points))
}

// WeeklyTrends classifies the recent movement of the core daily counters.
func (s *Service) WeeklyTrends(ctx context.Context, userID string) (map[string]string, error) {
	today := s.now()

	completed := make([]float64, 0, trendWindow)
	captures := make([]float64, 0, trendWindow)
	deepWork := make([]float64, 0, trendWindow)
	for i := trendWindow - 1; i >= 0; i-- {
		r, err := s.DailyRollup(ctx, userID, today.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		completed = append(completed, float64(r.TasksCompleted))
		captures = append(captures, float64(r.CaptureCount))
		deepWork = append(deepWork, float64(r.DeepWorkTime))
	}

	return map[string]string{
		"tasksCompleted": Trend(completed),
		"captureCount":   Trend(captures),
		"deepWorkTime":   Trend(deepWork),
	}, nil
}

// Insights turns recent rollups into short human-readable observations. This
// is the baseline used when the language model is unavailable.
func (s *Service) Insights(ctx context.Context, userID string) ([]string, error) {
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("building summary: %w", err)
	}

	insights := make([]string, 0, 4)
	switch summary.Trends["tasksCompleted"] {
	case "up":
		insights = append(insights, "Task completion is trending up over the last few days.")
	case "down":
		insights = append(insights, "Task completion has dipped recently; consider a shorter task list.")
	}
	switch summary.Trends["deepWorkTime"] {
	case "up":
		insights = append(insights, "Deep work time is growing. Protect those blocks.")
	case "down":
		insights = append(insights, "Deep work time is shrinking; meetings may be crowding it out.")
	}
	if summary.TasksCompletedToday == 0 {
		insights = append(insights, "No tasks completed yet today.")
	}
	if len(insights) == 0 {
		insights = append(insights, "Activity looks steady. Keep the current rhythm.")
	}
	return insights, nil
}
