package project

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/lumen/internal/domain/analytics"
	"github.com/mbecker/lumen/internal/kvstore"
)

type recordingSpy struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (r *recordingSpy) RecordActivity(_ context.Context, _ string, ev analytics.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSpy) count(typ analytics.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T) (*Service, *recordingSpy) {
	t.Helper()
	kv, err := kvstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	spy := &recordingSpy{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(kv, spy, logger), spy
}

func TestCreateProjectDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.CreateProject(ctx, "u1", CreateProjectRequest{Name: "Launch"})
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, StatusActive, view.Status)
	assert.Equal(t, "medium", view.Priority)
	assert.Equal(t, 0, view.Progress)
	assert.Empty(t, view.Tasks)
}

func TestCreateProjectRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProject(context.Background(), "u1", CreateProjectRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetProjectNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProject(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProgressDerivedFromTasks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.CreateProject(ctx, "u1", CreateProjectRequest{Name: "Launch"})
	require.NoError(t, err)

	var taskIDs []string
	for _, title := range []string{"a", "b", "c"} {
		task, err := svc.AddTask(ctx, "u1", view.ID, TaskRequest{Title: title})
		require.NoError(t, err)
		taskIDs = append(taskIDs, task.ID)
	}

	got, err := svc.GetProject(ctx, "u1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress)

	done := TaskCompleted
	_, err = svc.UpdateTask(ctx, "u1", taskIDs[0], UpdateTaskRequest{Status: &done})
	require.NoError(t, err)

	got, err = svc.GetProject(ctx, "u1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, got.Progress)

	_, err = svc.UpdateTask(ctx, "u1", taskIDs[1], UpdateTaskRequest{Status: &done})
	require.NoError(t, err)
	_, err = svc.UpdateTask(ctx, "u1", taskIDs[2], UpdateTaskRequest{Status: &done})
	require.NoError(t, err)

	got, err = svc.GetProject(ctx, "u1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
	assert.Len(t, got.Tasks, 3)
}

func TestArchiveKeepsProjectListed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.CreateProject(ctx, "u1", CreateProjectRequest{Name: "Old"})
	require.NoError(t, err)

	archived, err := svc.ArchiveProject(ctx, "u1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, archived.Status)

	// Archival is soft: the project stays readable and listed.
	got, err := svc.GetProject(ctx, "u1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, got.Status)

	views, err := svc.ListProjects(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, StatusArchived, views[0].Status)
}

func TestUpdateTaskRecordsOneCompletionEvent(t *testing.T) {
	svc, spy := newTestService(t)
	ctx := context.Background()

	view, err := svc.CreateProject(ctx, "u1", CreateProjectRequest{Name: "Launch"})
	require.NoError(t, err)
	task, err := svc.AddTask(ctx, "u1", view.ID, TaskRequest{Title: "ship"})
	require.NoError(t, err)

	assert.Equal(t, 1, spy.count(analytics.EventTaskCreated))

	done := TaskCompleted
	_, err = svc.UpdateTask(ctx, "u1", task.ID, UpdateTaskRequest{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, 1, spy.count(analytics.EventTaskComplete))

	// Updating an already-completed task must not record a second event.
	title := "ship it"
	_, err = svc.UpdateTask(ctx, "u1", task.ID, UpdateTaskRequest{Title: &title, Status: &done})
	require.NoError(t, err)
	assert.Equal(t, 1, spy.count(analytics.EventTaskComplete))

	// Reopen then complete again counts as a new completion.
	todo := TaskTodo
	_, err = svc.UpdateTask(ctx, "u1", task.ID, UpdateTaskRequest{Status: &todo})
	require.NoError(t, err)
	_, err = svc.UpdateTask(ctx, "u1", task.ID, UpdateTaskRequest{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, 2, spy.count(analytics.EventTaskComplete))
}

func TestCreateTaskFromCapture(t *testing.T) {
	svc, spy := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateTaskFromCapture(ctx, "u1", "email the vendor", "cap-1"))

	tasks, err := svc.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "email the vendor", tasks[0].Title)
	assert.Equal(t, "cap-1", tasks[0].SourceCaptureID)
	assert.Empty(t, tasks[0].ProjectID)
	assert.Equal(t, 1, spy.count(analytics.EventTaskCreated))
}

func TestTaskOrdering(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	clock := base
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	soon := base.Add(24 * time.Hour)
	later := base.Add(72 * time.Hour)

	projID := mustProject(t, svc, ctx)
	mk := func(title, priority string, due *time.Time) {
		t.Helper()
		_, err := svc.AddTask(ctx, "u1", projID, TaskRequest{Title: title, Priority: priority, DueDate: due})
		require.NoError(t, err)
	}

	mk("low-first", "low", nil)
	mk("high-later", "high", &later)
	mk("high-soon", "high", &soon)
	mk("medium-no-due", "medium", nil)
	mk("high-no-due", "high", nil)

	tasks, err := svc.ListTasks(ctx, "u1")
	require.NoError(t, err)

	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	// Priority descending, then due date ascending; without a due date on
	// either side, creation order decides.
	assert.Equal(t, []string{"high-soon", "high-later", "high-no-due", "medium-no-due", "low-first"}, titles)
}

func TestOverdueTasks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	projID := mustProject(t, svc, ctx)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	overdueTask, err := svc.AddTask(ctx, "u1", projID, TaskRequest{Title: "late", DueDate: &past})
	require.NoError(t, err)
	_, err = svc.AddTask(ctx, "u1", projID, TaskRequest{Title: "upcoming", DueDate: &future})
	require.NoError(t, err)
	doneButLate, err := svc.AddTask(ctx, "u1", projID, TaskRequest{Title: "done late", DueDate: &past})
	require.NoError(t, err)

	done := TaskCompleted
	_, err = svc.UpdateTask(ctx, "u1", doneButLate.ID, UpdateTaskRequest{Status: &done})
	require.NoError(t, err)

	overdue, err := svc.OverdueTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, overdueTask.ID, overdue[0].ID)
}

func TestTasksScopedPerUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateTaskFromCapture(ctx, "u1", "mine", ""))
	require.NoError(t, svc.CreateTaskFromCapture(ctx, "u2", "theirs", ""))

	tasks, err := svc.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)
}

func mustProject(t *testing.T, svc *Service, ctx context.Context) string {
	t.Helper()
	view, err := svc.CreateProject(ctx, "u1", CreateProjectRequest{Name: "holder"})
	require.NoError(t, err)
	return view.ID
}
