package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mbecker/lumen/internal/domain/capture"
	"github.com/mbecker/lumen/internal/domain/integration"
	"github.com/mbecker/lumen/internal/domain/project"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError emits the uniform error body. No structured codes, only a
// message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain errors to HTTP statuses. Not-found conditions
// get a distinct 404; validation problems a 400; everything else a generic
// 500 with the detail kept out of the body.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, capture.ErrCaptureNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, project.ErrTaskNotFound),
		errors.Is(err, integration.ErrIntegrationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, capture.ErrInvalidInput),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, integration.ErrUnknownService),
		errors.Is(err, integration.ErrDisabled):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
