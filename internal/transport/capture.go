package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mbecker/lumen/internal/domain/capture"
)

type captureRequest struct {
	Type     string         `json:"type"`
	Content  string         `json:"content"`
	Source   string         `json:"source"`
	Metadata map[string]any `json:"metadata"`
	Priority string         `json:"priority"`
}

func (s *Server) handleCreateCapture(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req captureRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	c, err := s.captures.Create(r.Context(), userID, capture.CreateRequest{
		Type:     capture.Type(req.Type),
		Content:  req.Content,
		Source:   req.Source,
		Metadata: req.Metadata,
		Priority: req.Priority,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListCaptures(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	captures, err := s.captures.List(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"captures": captures})
}

func (s *Server) handleGetCapture(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	c, err := s.captures.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := renderHTML(c.RawContent)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "rendering failed")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(html)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCapture(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req struct {
		Tags      []string           `json:"tags"`
		Processed *capture.Processed `json:"processed"`
		Metadata  map[string]any     `json:"metadata"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := s.captures.Update(r.Context(), userID, chi.URLParam(r, "id"), capture.UpdateRequest{
		Tags:      req.Tags,
		Processed: req.Processed,
		Metadata:  req.Metadata,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCapture(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	if err := s.captures.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
