package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbecker/lumen/internal/assistant"
	"github.com/mbecker/lumen/internal/auth"
	"github.com/mbecker/lumen/internal/domain/analytics"
	"github.com/mbecker/lumen/internal/domain/capture"
	"github.com/mbecker/lumen/internal/domain/integration"
	"github.com/mbecker/lumen/internal/domain/project"
	"github.com/mbecker/lumen/internal/kvstore"
)

// Assistant is the conversational surface behind the /ai endpoints.
type Assistant interface {
	Chat(ctx context.Context, userID, message, contextNote string) (*assistant.Reply, error)
	Insights(ctx context.Context, userID string) (*assistant.InsightReport, error)
}

// Server wires the HTTP surface over the domain services.
type Server struct {
	captures     *capture.Service
	projects     *project.Service
	analytics    *analytics.Service
	integrations *integration.Service
	assistant    Assistant
	kv           kvstore.Store
	logger       *slog.Logger
	started      time.Time
}

// NewServer creates the HTTP server.
func NewServer(
	captures *capture.Service,
	projects *project.Service,
	analyticsSvc *analytics.Service,
	integrations *integration.Service,
	assistantSvc Assistant,
	kv kvstore.Store,
	logger *slog.Logger,
) *Server {
	return &Server{
		captures:     captures,
		projects:     projects,
		analytics:    analyticsSvc,
		integrations: integrations,
		assistant:    assistantSvc,
		kv:           kv,
		logger:       logger,
		started:      time.Now(),
	}
}

// Router builds the chi router. Everything except /health sits behind the
// auth middleware.
func (s *Server) Router(resolver auth.Resolver) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(resolver))

		r.Post("/capture", s.handleCreateCapture)
		r.Get("/captures", s.handleListCaptures)
		r.Get("/captures/{id}", s.handleGetCapture)
		r.Put("/captures/{id}", s.handleUpdateCapture)
		r.Delete("/captures/{id}", s.handleDeleteCapture)

		r.Post("/ai/chat", s.handleChat)
		r.Post("/ai/insights", s.handleInsights)

		r.Get("/projects", s.handleListProjects)
		r.Post("/projects", s.handleCreateProject)
		r.Get("/projects/{id}", s.handleGetProject)
		r.Put("/projects/{id}", s.handleUpdateProject)
		r.Delete("/projects/{id}", s.handleArchiveProject)
		r.Post("/projects/{id}/tasks", s.handleAddTask)
		r.Get("/tasks", s.handleListTasks)
		r.Put("/tasks/{id}", s.handleUpdateTask)

		r.Get("/integrations", s.handleListIntegrations)
		r.Post("/integrations/connect", s.handleConnectIntegration)
		r.Post("/integrations/sync", s.handleSyncIntegrations)
		r.Delete("/integrations/{id}", s.handleDisconnectIntegration)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.Get("/analytics/dashboard", s.handleDashboard)
		r.Get("/realtime/status", s.handleRealtimeStatus)
		r.Post("/batch/process", s.handleBatch)
		r.Post("/search", s.handleSearch)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": map[string]string{
			"store":     "ok",
			"analytics": "ok",
		},
	})
}
