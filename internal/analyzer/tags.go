package analyzer

import "strings"

const maxTags = 5

// tagVocabulary is the fixed set of content words promoted to tags.
var tagVocabulary = []string{
	"work", "personal", "urgent", "meeting",
	"project", "client", "idea", "review",
}

// Tags builds a tag list from the derived category and priority plus any
// vocabulary words found in the content, deduplicated and capped at five.
func Tags(content, category, priority string) []string {
	tags := make([]string, 0, maxTags)
	seen := make(map[string]bool)

	add := func(tag string) {
		if tag == "" || seen[tag] || len(tags) == maxTags {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	add(category)
	add(priority)

	lower := strings.ToLower(content)
	for _, w := range tagVocabulary {
		if strings.Contains(lower, w) {
			add(w)
		}
	}

	return tags
}
