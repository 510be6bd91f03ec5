package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListIntegrations(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	integrations, err := s.integrations.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"integrations": integrations})
}

func (s *Server) handleConnectIntegration(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req struct {
		Service     string         `json:"service"`
		Credentials map[string]any `json:"credentials"`
		Settings    map[string]any `json:"settings"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Service == "" {
		writeError(w, http.StatusBadRequest, "service is required")
		return
	}

	integ, err := s.integrations.Connect(r.Context(), userID, req.Service, req.Credentials, req.Settings)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, integ)
}

// handleSyncIntegrations syncs one integration when an id is supplied,
// otherwise every enabled one.
func (s *Server) handleSyncIntegrations(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req struct {
		ID string `json:"id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if req.ID != "" {
		result, err := s.integrations.Sync(r.Context(), userID, req.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	results, err := s.integrations.SyncAll(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleDisconnectIntegration(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	if err := s.integrations.Disconnect(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"disconnected": true})
}
