package transport

import (
	"encoding/json"
	"net/http"

	"github.com/mbecker/lumen/internal/domain/capture"
	"github.com/mbecker/lumen/internal/domain/project"
)

type batchOperation struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type batchResult struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleBatch executes a list of operations, collecting per-operation
// results. One failing operation never aborts the rest.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req struct {
		Operations []batchOperation `json:"operations"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Operations) == 0 {
		writeError(w, http.StatusBadRequest, "operations are required")
		return
	}

	results := make([]batchResult, 0, len(req.Operations))
	for _, op := range req.Operations {
		result, err := s.runBatchOperation(r, userID, op)
		if err != nil {
			results = append(results, batchResult{ID: op.ID, Error: err.Error()})
			continue
		}
		results = append(results, batchResult{ID: op.ID, Result: result})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) runBatchOperation(r *http.Request, userID string, op batchOperation) (any, error) {
	switch op.Type {
	case "capture":
		var data captureRequest
		if err := json.Unmarshal(op.Data, &data); err != nil {
			return nil, err
		}
		return s.captures.Create(r.Context(), userID, capture.CreateRequest{
			Type:     capture.Type(data.Type),
			Content:  data.Content,
			Source:   data.Source,
			Metadata: data.Metadata,
			Priority: data.Priority,
		})
	case "create_project":
		var data projectRequest
		if err := json.Unmarshal(op.Data, &data); err != nil {
			return nil, err
		}
		return s.projects.CreateProject(r.Context(), userID, project.CreateProjectRequest{
			Name:        data.Name,
			Description: data.Description,
			Priority:    data.Priority,
			Team:        data.Team,
			Deadline:    data.Deadline,
			Tags:        data.Tags,
			Metadata:    data.Metadata,
		})
	case "create_task":
		var data struct {
			ProjectID string `json:"projectId"`
			taskRequest
		}
		if err := json.Unmarshal(op.Data, &data); err != nil {
			return nil, err
		}
		return s.projects.AddTask(r.Context(), userID, data.ProjectID, project.TaskRequest{
			Title:       data.Title,
			Description: data.Description,
			Priority:    data.Priority,
			DueDate:     data.DueDate,
		})
	case "complete_task":
		var data struct {
			TaskID string `json:"taskId"`
		}
		if err := json.Unmarshal(op.Data, &data); err != nil {
			return nil, err
		}
		done := project.TaskCompleted
		return s.projects.UpdateTask(r.Context(), userID, data.TaskID, project.UpdateTaskRequest{Status: &done})
	default:
		return nil, errUnknownOperation(op.Type)
	}
}

type errUnknownOperation string

func (e errUnknownOperation) Error() string {
	return "unknown operation type: " + string(e)
}
