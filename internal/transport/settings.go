package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/mbecker/lumen/internal/kvstore"
)

// Settings live as a single per-user document; PUT shallow-merges keys into
// whatever is already stored.

func settingsKey(userID string) string {
	return kvstore.UserKey(userID, "settings")
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	settings := map[string]any{}
	if err := s.kv.Get(r.Context(), settingsKey(userID), &settings); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var incoming map[string]any
	if !decodeBody(w, r, &incoming) {
		return
	}

	settings := map[string]any{}
	if err := s.kv.Get(r.Context(), settingsKey(userID), &settings); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	for k, v := range incoming {
		settings[k] = v
	}

	if err := s.kv.Put(r.Context(), settingsKey(userID), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	summary, err := s.analytics.Summary(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleRealtimeStatus reports a static connected payload. There is no push
// channel; clients poll.
func (s *Server) handleRealtimeStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"connected":  true,
		"serverTime": time.Now().UTC().Format(time.RFC3339),
		"uptime":     time.Since(s.started).Round(time.Second).String(),
	})
}
