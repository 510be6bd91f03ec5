package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/lumen/internal/domain/analytics"
	"github.com/mbecker/lumen/internal/kvstore"
)

// Recorder receives best-effort activity events.
type Recorder interface {
	RecordActivity(ctx context.Context, userID string, ev analytics.Event)
}

// Service handles project and task bookkeeping over the key-value store.
// Read-modify-write sequences carry no version guard; concurrent writers to
// the same document are last-write-wins.
type Service struct {
	kv       kvstore.Store
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a project service.
func NewService(kv kvstore.Store, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{kv: kv, recorder: recorder, logger: logger, now: time.Now}
}

// CreateProjectRequest defines project creation inputs.
type CreateProjectRequest struct {
	Name        string
	Description string
	Priority    string
	Team        []string
	Deadline    *time.Time
	Tags        []string
	Metadata    map[string]any
}

// CreateProject creates a new active project.
func (s *Service) CreateProject(ctx context.Context, userID string, req CreateProjectRequest) (*View, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}

	now := s.now()
	proj := Project{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Status:      StatusActive,
		Priority:    defaultPriority(req.Priority),
		TaskIDs:     []string{},
		Team:        req.Team,
		Deadline:    req.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tags:        req.Tags,
		Metadata:    req.Metadata,
	}

	if err := s.kv.Put(ctx, s.projectKey(userID, proj.ID), proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	return &View{Project: proj, Progress: 0, Tasks: []Task{}}, nil
}

// GetProject fetches a project with tasks resolved and progress derived.
func (s *Service) GetProject(ctx context.Context, userID, id string) (*View, error) {
	var proj Project
	if err := s.kv.Get(ctx, s.projectKey(userID, id), &proj); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return s.resolve(ctx, userID, proj)
}

// ListProjects returns every project for the user, archived ones included,
// newest first.
func (s *Service) ListProjects(ctx context.Context, userID string) ([]View, error) {
	entries, err := s.kv.List(ctx, kvstore.UserPrefix(userID, "project"))
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	views := make([]View, 0, len(entries))
	for _, e := range entries {
		var proj Project
		if err := json.Unmarshal(e.Value, &proj); err != nil {
			s.logger.Warn("skipping undecodable project", "key", e.Key, "error", err)
			continue
		}
		view, err := s.resolve(ctx, userID, proj)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}

// UpdateProjectRequest carries mutable project fields; nil means unchanged.
type UpdateProjectRequest struct {
	Name        *string
	Description *string
	Status      *Status
	Priority    *string
	Team        []string
	Deadline    *time.Time
	Tags        []string
	Metadata    map[string]any
}

// UpdateProject shallow-merges the request into the stored project.
func (s *Service) UpdateProject(ctx context.Context, userID, id string, req UpdateProjectRequest) (*View, error) {
	var proj Project
	if err := s.kv.Get(ctx, s.projectKey(userID, id), &proj); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}

	if req.Name != nil {
		proj.Name = *req.Name
	}
	if req.Description != nil {
		proj.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		proj.Status = *req.Status
	}
	if req.Priority != nil {
		proj.Priority = *req.Priority
	}
	if req.Team != nil {
		proj.Team = req.Team
	}
	if req.Deadline != nil {
		proj.Deadline = req.Deadline
	}
	if req.Tags != nil {
		proj.Tags = req.Tags
	}
	if req.Metadata != nil {
		proj.Metadata = req.Metadata
	}
	proj.UpdatedAt = s.now()

	if err := s.kv.Put(ctx, s.projectKey(userID, id), proj); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return s.resolve(ctx, userID, proj)
}

// ArchiveProject soft-deletes: the record stays and keeps listing, only its
// status changes.
func (s *Service) ArchiveProject(ctx context.Context, userID, id string) (*View, error) {
	archived := StatusArchived
	return s.UpdateProject(ctx, userID, id, UpdateProjectRequest{Status: &archived})
}

// TaskRequest defines task creation inputs.
type TaskRequest struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// AddTask creates a task inside a project and records a creation event.
func (s *Service) AddTask(ctx context.Context, userID, projectID string, req TaskRequest) (*Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}

	var proj Project
	if err := s.kv.Get(ctx, s.projectKey(userID, projectID), &proj); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}

	task, err := s.createTask(ctx, userID, projectID, req, "")
	if err != nil {
		return nil, err
	}

	proj.TaskIDs = append(proj.TaskIDs, task.ID)
	proj.UpdatedAt = s.now()
	if err := s.kv.Put(ctx, s.projectKey(userID, projectID), proj); err != nil {
		return nil, fmt.Errorf("attaching task to project: %w", err)
	}

	return task, nil
}

// CreateTaskFromCapture creates a standalone task from an extracted task
// phrase. It satisfies the capture pipeline's TaskCreator.
func (s *Service) CreateTaskFromCapture(ctx context.Context, userID, title, captureID string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}
	_, err := s.createTask(ctx, userID, "", TaskRequest{Title: title, Priority: "medium"}, captureID)
	return err
}

func (s *Service) createTask(ctx context.Context, userID, projectID string, req TaskRequest, captureID string) (*Task, error) {
	now := s.now()
	task := Task{
		ID:              uuid.NewString(),
		UserID:          userID,
		ProjectID:       projectID,
		Title:           req.Title,
		Description:     req.Description,
		Status:          TaskTodo,
		Priority:        defaultPriority(req.Priority),
		DueDate:         req.DueDate,
		SourceCaptureID: captureID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.kv.Put(ctx, s.taskKey(userID, task.ID), task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordActivity(ctx, userID, analytics.Event{Type: analytics.EventTaskCreated})
	}
	return &task, nil
}

// GetTask fetches a task by id.
func (s *Service) GetTask(ctx context.Context, userID, id string) (*Task, error) {
	var task Task
	if err := s.kv.Get(ctx, s.taskKey(userID, id), &task); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return &task, nil
}

// UpdateTaskRequest carries mutable task fields; nil means unchanged.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *string
	DueDate     *time.Time
}

// UpdateTask shallow-merges the request into the task. A transition into
// completed on a previously non-completed task records exactly one
// completion event.
func (s *Service) UpdateTask(ctx context.Context, userID, id string, req UpdateTaskRequest) (*Task, error) {
	task, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	wasCompleted := task.Status == TaskCompleted

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	task.UpdatedAt = s.now()

	if err := s.kv.Put(ctx, s.taskKey(userID, id), task); err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	if !wasCompleted && task.Status == TaskCompleted && s.recorder != nil {
		s.recorder.RecordActivity(ctx, userID, analytics.Event{Type: analytics.EventTaskComplete})
	}
	return task, nil
}

// ListTasks returns all tasks for the user, sorted by priority descending,
// then due date ascending; when either side lacks a due date the creation
// date decides.
func (s *Service) ListTasks(ctx context.Context, userID string) ([]Task, error) {
	entries, err := s.kv.List(ctx, kvstore.UserPrefix(userID, "task"))
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	tasks := make([]Task, 0, len(entries))
	for _, e := range entries {
		var task Task
		if err := json.Unmarshal(e.Value, &task); err != nil {
			s.logger.Warn("skipping undecodable task", "key", e.Key, "error", err)
			continue
		}
		tasks = append(tasks, task)
	}

	sortTasks(tasks)
	return tasks, nil
}

// OpenTasks returns non-completed tasks in working order.
func (s *Service) OpenTasks(ctx context.Context, userID string) ([]Task, error) {
	tasks, err := s.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	open := tasks[:0]
	for _, t := range tasks {
		if t.Status != TaskCompleted {
			open = append(open, t)
		}
	}
	return open, nil
}

// OverdueTasks returns open tasks whose due date has passed.
func (s *Service) OverdueTasks(ctx context.Context, userID string) ([]Task, error) {
	open, err := s.OpenTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	overdue := open[:0]
	for _, t := range open {
		if t.DueDate != nil && t.DueDate.Before(now) {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}

// resolve loads a project's tasks and computes progress.
func (s *Service) resolve(ctx context.Context, userID string, proj Project) (*View, error) {
	tasks := make([]Task, 0, len(proj.TaskIDs))
	completed := 0
	for _, taskID := range proj.TaskIDs {
		task, err := s.GetTask(ctx, userID, taskID)
		if err != nil {
			if errors.Is(err, ErrTaskNotFound) {
				// dangling reference, likely a deleted task
				continue
			}
			return nil, err
		}
		tasks = append(tasks, *task)
		if task.Status == TaskCompleted {
			completed++
		}
	}

	return &View{
		Project:  proj,
		Progress: progress(completed, len(tasks)),
		Tasks:    tasks,
	}, nil
}

// progress is round(100 * completed / total), 0 for an empty task list.
func progress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

func sortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if pa, pb := priorityRank(a.Priority), priorityRank(b.Priority); pa != pb {
			return pa > pb
		}
		if a.DueDate != nil && b.DueDate != nil {
			if !a.DueDate.Equal(*b.DueDate) {
				return a.DueDate.Before(*b.DueDate)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func priorityRank(p string) int {
	switch p {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

func defaultPriority(p string) string {
	if p == "" {
		return "medium"
	}
	return p
}

func (s *Service) projectKey(userID, id string) string {
	return kvstore.UserKey(userID, "project", id)
}

func (s *Service) taskKey(userID, id string) string {
	return kvstore.UserKey(userID, "task", id)
}
