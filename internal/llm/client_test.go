package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completionBody(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{"total_tokens": 42},
	}
	b, _ := json.Marshal(reply)
	return string(b)
}

func TestClassifyParsesReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		content := `{"summary":"Quarterly sync","category":"meeting","priority":"medium",` +
			`"entities":{"people":["Jane Doe"],"dates":["tomorrow"],"projects":["Apollo"],"tasks":[]}}`
		fmt.Fprint(w, completionBody(content))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"}, testLogger())
	cls, err := c.Classify(context.Background(), "sync with Jane tomorrow")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly sync", cls.Summary)
	assert.Equal(t, "meeting", cls.Category)
	assert.Equal(t, "medium", cls.Priority)
	assert.Equal(t, []string{"Apollo"}, cls.Entities.Projects)
}

func TestClassifyStripsCodeFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := "```json\n{\"summary\":\"Fenced\",\"priority\":\"low\"}\n```"
		fmt.Fprint(w, completionBody(content))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"}, testLogger())
	cls, err := c.Classify(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "Fenced", cls.Summary)
}

func TestClassifyNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"}, testLogger())
	_, err := c.Classify(context.Background(), "text")
	require.Error(t, err)
}

func TestClassifyMalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody("I cannot classify that, sorry."))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"}, testLogger())
	_, err := c.Classify(context.Background(), "text")
	require.ErrorIs(t, err, ErrMalformedReply)
}

func TestClassifyNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"}, testLogger())
	_, err := c.Classify(context.Background(), "text")
	require.Error(t, err)
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"}, testLogger())
	_, err := c.Complete(context.Background(), "sys", "user")
	require.Error(t, err)
}

func TestChatIncludesContext(t *testing.T) {
	var gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotUser = req.Messages[1].Content
		fmt.Fprint(w, completionBody("sure"))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"}, testLogger())
	reply, err := c.Chat(context.Background(), "what next?", "three overdue tasks")
	require.NoError(t, err)
	assert.Equal(t, "sure", reply)
	assert.Contains(t, gotUser, "three overdue tasks")
	assert.Contains(t, gotUser, "what next?")
}
