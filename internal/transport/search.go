package transport

import (
	"net/http"
	"strings"
)

type searchFilters struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

type searchHit struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Title string `json:"title"`
	Match string `json:"match"`
}

// handleSearch does a case-insensitive substring scan over captures,
// projects, and tasks. Linear; good enough at personal-data scale.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req struct {
		Query   string        `json:"query"`
		Filters searchFilters `json:"filters"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	query := strings.ToLower(req.Query)

	var hits []searchHit

	captures, err := s.captures.List(r.Context(), userID, 0)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	for _, c := range captures {
		if req.Filters.Type != "" && string(c.Type) != req.Filters.Type {
			continue
		}
		if req.Filters.Category != "" && c.Processed.Category != req.Filters.Category {
			continue
		}
		if req.Filters.Priority != "" && c.Processed.Priority != req.Filters.Priority {
			continue
		}
		if strings.Contains(strings.ToLower(c.RawContent), query) ||
			strings.Contains(strings.ToLower(c.Processed.Summary), query) {
			hits = append(hits, searchHit{Kind: "capture", ID: c.ID, Title: c.Processed.Summary, Match: string(c.Type)})
		}
	}

	projects, err := s.projects.ListProjects(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	for _, p := range projects {
		if req.Filters.Priority != "" && p.Priority != req.Filters.Priority {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			hits = append(hits, searchHit{Kind: "project", ID: p.ID, Title: p.Name, Match: string(p.Status)})
		}
	}

	tasks, err := s.projects.ListTasks(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	for _, task := range tasks {
		if req.Filters.Priority != "" && task.Priority != req.Filters.Priority {
			continue
		}
		if strings.Contains(strings.ToLower(task.Title), query) ||
			strings.Contains(strings.ToLower(task.Description), query) {
			hits = append(hits, searchHit{Kind: "task", ID: task.ID, Title: task.Title, Match: string(task.Status)})
		}
	}

	if hits == nil {
		hits = []searchHit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}
