package analyzer

import (
	"regexp"
	"strings"
)

const (
	maxPeople      = 5
	maxDates       = 3
	maxTaskPhrases = 3
)

var peopleRe = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)

// Four date pattern families: slash dates, ISO dates, month-name dates, and
// relative day references.
var dateRes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?`),
	regexp.MustCompile(`(?i)\b(?:today|tomorrow|tonight|next\s+(?:week|month|monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`),
}

var taskPhraseRe = regexp.MustCompile(`(?i)\b(?:todo|task|need to|should|must|have to)\b[:\s]+([^.!?\n]+)`)

// extractPeople finds proper-noun bigrams, deduplicated, capped at five.
func extractPeople(text string) []string {
	people := make([]string, 0, maxPeople)
	seen := make(map[string]bool)
	for _, m := range peopleRe.FindAllString(text, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		people = append(people, m)
		if len(people) == maxPeople {
			break
		}
	}
	return people
}

// extractDates matches each date family in turn, capped at three overall.
func extractDates(text string) []string {
	dates := make([]string, 0, maxDates)
	seen := make(map[string]bool)
	for _, re := range dateRes {
		for _, m := range re.FindAllString(text, -1) {
			key := strings.ToLower(m)
			if seen[key] {
				continue
			}
			seen[key] = true
			dates = append(dates, m)
			if len(dates) == maxDates {
				return dates
			}
		}
	}
	return dates
}

// extractTaskPhrases pulls the clause following an obligation verb, capped
// at three.
func extractTaskPhrases(text string) []string {
	phrases := make([]string, 0, maxTaskPhrases)
	for _, m := range taskPhraseRe.FindAllStringSubmatch(text, -1) {
		phrase := strings.TrimSpace(m[1])
		if phrase == "" {
			continue
		}
		phrases = append(phrases, phrase)
		if len(phrases) == maxTaskPhrases {
			break
		}
	}
	return phrases
}
