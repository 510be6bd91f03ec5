package llm

import "fmt"

// System prompts. Kept short; the reply shape matters more than nuance.

const classifySystemPrompt = "You are a productivity assistant that classifies captured notes. " +
	"Reply with a single JSON object and nothing else, using this exact shape: " +
	`{"summary": string, "category": string, "priority": "high"|"medium"|"low", ` +
	`"suggested_actions": [string], ` +
	`"entities": {"people": [string], "dates": [string], "projects": [string], "tasks": [string]}, ` +
	`"tags": [string]}. ` +
	"Categories: communication, task, idea, meeting, research, planning, general. " +
	"Omit fields you cannot determine."

const chatSystemPrompt = "You are a concise personal productivity assistant. " +
	"Answer in at most three sentences, then suggest concrete next steps."

const insightsSystemPrompt = "You are a productivity coach. Given activity metrics, " +
	"write short, specific observations. One sentence per insight, no preamble."

func classifyUserPrompt(text string) string {
	return fmt.Sprintf("Classify the following capture:\n\n%s", text)
}
