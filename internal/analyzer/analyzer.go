// Package analyzer derives structured metadata from raw capture content
// using rule-based pattern matching. It is the always-available baseline
// behind the language-model gateway: pure, synchronous, and it never fails.
package analyzer

import (
	"regexp"
	"strings"
)

const (
	maxSummaryLen = 100
	maxActions    = 3
)

// Priority levels assigned to analyzed content.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Entities holds references extracted from content. Projects is only ever
// populated by the language-model path; the heuristic leaves it empty.
type Entities struct {
	People   []string `json:"people"`
	Dates    []string `json:"dates"`
	Projects []string `json:"projects"`
	Tasks    []string `json:"tasks"`
}

// Analysis is the structured result of analyzing a piece of content.
type Analysis struct {
	Summary          string   `json:"summary"`
	Category         string   `json:"category"`
	Priority         string   `json:"priority"`
	SuggestedActions []string `json:"suggestedActions"`
	Entities         Entities `json:"entities"`
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Urgent keywords force high priority regardless of other content. The
// secondary tier only applies when no urgent keyword matched.
var (
	urgentWords    = []string{"urgent", "asap", "deadline", "critical", "important", "priority"}
	secondaryWords = []string{"meeting", "client", "project", "due"}
)

var actionSeeds = map[string][]string{
	"email": {"Reply to sender", "Add to calendar", "Create follow-up task"},
	"task":  {"Add to task list", "Set a due date"},
	"idea":  {"Expand into a project note", "Share with team"},
	"note":  {"File into a project"},
	"link":  {"Read later"},
	"file":  {"File into a project"},
	"voice": {"Transcribe and review"},
}

// Analyze derives summary, category, priority, suggested actions, and
// entities from raw text. declaredType is the capture type supplied by the
// caller (email, note, task, idea, link, file, voice).
func Analyze(text, declaredType string) Analysis {
	return Analysis{
		Summary:          Summarize(text),
		Category:         Categorize(text, declaredType),
		Priority:         Prioritize(text),
		SuggestedActions: SuggestActions(text, declaredType),
		Entities: Entities{
			People:   extractPeople(text),
			Dates:    extractDates(text),
			Projects: []string{},
			Tasks:    extractTaskPhrases(text),
		},
	}
}

// Summarize returns the first sentence of text, with an ellipsis when more
// sentences follow or the sentence exceeds the length cap. Text without a
// sentence boundary is truncated at the cap.
func Summarize(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	parts := sentenceSplit.Split(trimmed, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) == 0 {
		return ""
	}

	summary := sentences[0]
	truncated := false
	if runes := []rune(summary); len(runes) > maxSummaryLen {
		summary = string(runes[:maxSummaryLen])
		truncated = true
	}
	if truncated || len(sentences) > 1 {
		summary += "..."
	}
	return summary
}

// Categorize maps the declared type directly where it implies a category,
// then falls back to keyword search over the content.
func Categorize(text, declaredType string) string {
	switch declaredType {
	case "email":
		return "communication"
	case "task":
		return "task"
	case "idea":
		return "idea"
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "meeting"), strings.Contains(lower, "call"):
		return "meeting"
	case strings.Contains(lower, "research"), strings.Contains(lower, "study"):
		return "research"
	case strings.Contains(lower, "plan"), strings.Contains(lower, "strategy"):
		return "planning"
	}
	return "general"
}

// Prioritize assigns a priority tier by keyword. The urgent tier wins over
// the secondary tier; everything else is low.
func Prioritize(text string) string {
	lower := strings.ToLower(text)
	for _, w := range urgentWords {
		if strings.Contains(lower, w) {
			return PriorityHigh
		}
	}
	for _, w := range secondaryWords {
		if strings.Contains(lower, w) {
			return PriorityMedium
		}
	}
	return PriorityLow
}

// SuggestActions combines a type-specific seed list with keyword-triggered
// additions, capped at three, insertion order preserved.
func SuggestActions(text, declaredType string) []string {
	actions := make([]string, 0, maxActions)
	seen := make(map[string]bool)

	add := func(a string) {
		if len(actions) < maxActions && !seen[a] {
			actions = append(actions, a)
			seen[a] = true
		}
	}

	for _, a := range actionSeeds[declaredType] {
		add(a)
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "meeting") {
		add("Schedule meeting")
	}
	if strings.Contains(lower, "research") {
		add("Create research project")
	}
	if strings.Contains(lower, "follow up") {
		add("Set reminder")
	}

	return actions
}
