package transport

import "net/http"

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.assistant.Chat(r.Context(), userID, req.Message, req.Context)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	report, err := s.assistant.Insights(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
