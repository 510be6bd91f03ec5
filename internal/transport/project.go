package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mbecker/lumen/internal/domain/project"
)

type projectRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Priority    string         `json:"priority"`
	Team        []string       `json:"team"`
	Deadline    *time.Time     `json:"deadline"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req projectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := s.projects.CreateProject(r.Context(), userID, project.CreateProjectRequest{
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		Team:        req.Team,
		Deadline:    req.Deadline,
		Tags:        req.Tags,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	views, err := s.projects.ListProjects(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": views})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	view, err := s.projects.GetProject(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req struct {
		Name        *string         `json:"name"`
		Description *string         `json:"description"`
		Status      *project.Status `json:"status"`
		Priority    *string         `json:"priority"`
		Team        []string        `json:"team"`
		Deadline    *time.Time      `json:"deadline"`
		Tags        []string        `json:"tags"`
		Metadata    map[string]any  `json:"metadata"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := s.projects.UpdateProject(r.Context(), userID, chi.URLParam(r, "id"), project.UpdateProjectRequest{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Team:        req.Team,
		Deadline:    req.Deadline,
		Tags:        req.Tags,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleArchiveProject soft-deletes: DELETE on a project archives it.
func (s *Server) handleArchiveProject(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	view, err := s.projects.ArchiveProject(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req taskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := s.projects.AddTask(r.Context(), userID, chi.URLParam(r, "id"), project.TaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var (
		tasks []project.Task
		err   error
	)
	switch r.URL.Query().Get("filter") {
	case "open":
		tasks, err = s.projects.OpenTasks(r.Context(), userID)
	case "overdue":
		tasks, err = s.projects.OverdueTasks(r.Context(), userID)
	default:
		tasks, err = s.projects.ListTasks(r.Context(), userID)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req struct {
		Title       *string             `json:"title"`
		Description *string             `json:"description"`
		Status      *project.TaskStatus `json:"status"`
		Priority    *string             `json:"priority"`
		DueDate     *time.Time          `json:"dueDate"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := s.projects.UpdateTask(r.Context(), userID, chi.URLParam(r, "id"), project.UpdateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
