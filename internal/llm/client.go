// Package llm is a best-effort gateway to an OpenAI-style chat-completions
// endpoint. Callers must treat every failure as "no data" and fall back to
// the heuristic analyzer; nothing here is load-bearing for correctness.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrMalformedReply is returned when the model reply cannot be parsed as the
// requested JSON object.
var ErrMalformedReply = errors.New("malformed model reply")

const defaultTimeout = 30 * time.Second

// Config holds gateway connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client sends prompts to the completion endpoint. One call per capture, no
// retries; the timeout bounds how long a stalled call can hold a request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *slog.Logger
}

// NewClient creates a gateway client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// ClassifiedEntities holds entity references returned by the model.
type ClassifiedEntities struct {
	People   []string `json:"people"`
	Dates    []string `json:"dates"`
	Projects []string `json:"projects"`
	Tasks    []string `json:"tasks"`
}

// Classification is the structured reply of a classify call. Every field may
// be absent; consumers merge field-by-field over the heuristic baseline.
type Classification struct {
	Summary          string             `json:"summary"`
	Category         string             `json:"category"`
	Priority         string             `json:"priority"`
	SuggestedActions []string           `json:"suggested_actions"`
	Entities         ClassifiedEntities `json:"entities"`
	Tags             []string           `json:"tags"`
}

// Classify asks the model to derive structured metadata for the given text.
func (c *Client) Classify(ctx context.Context, text string) (*Classification, error) {
	reply, err := c.Complete(ctx, classifySystemPrompt, classifyUserPrompt(text))
	if err != nil {
		return nil, err
	}

	var cls Classification
	if err := json.Unmarshal([]byte(extractJSONObject(reply)), &cls); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return &cls, nil
}

// Chat answers a free-form user message, optionally with UI-supplied context.
func (c *Client) Chat(ctx context.Context, message, contextNote string) (string, error) {
	user := message
	if contextNote != "" {
		user = fmt.Sprintf("Context: %s\n\n%s", contextNote, message)
	}
	return c.Complete(ctx, chatSystemPrompt, user)
}

// Insights phrases observations over a metrics summary.
func (c *Client) Insights(ctx context.Context, metrics string) (string, error) {
	return c.Complete(ctx, insightsSystemPrompt, metrics)
}

// Complete sends a single system+user exchange and returns the reply text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   600,
		Temperature: 0.2,
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("completion endpoint error",
			"status", resp.StatusCode,
			"duration", time.Since(start))
		return "", fmt.Errorf("completion endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	c.logger.Debug("completion received",
		"duration", time.Since(start),
		"tokens", chatResp.Usage.TotalTokens)

	return chatResp.Choices[0].Message.Content, nil
}

// extractJSONObject strips code fences and surrounding prose, keeping the
// outermost {...} span. Models wrap JSON in markdown more often than not.
func extractJSONObject(reply string) string {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
