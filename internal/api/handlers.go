package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aleister1102/pagewatch/internal/common"
)

const missingURLMessage = "URL parameter is required."

type messageResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")

	if err := s.targets.AddTarget(url); err != nil {
		s.respondTargetError(w, url, "Error starting monitoring: ", err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Started monitoring URL: " + url, URL: url})
}

func (s *Server) handleRemoveTarget(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")

	if err := s.targets.RemoveTarget(url); err != nil {
		s.respondTargetError(w, url, "Error stopping monitoring: ", err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Stopped monitoring URL: " + url, URL: url})
}

func (s *Server) respondTargetError(w http.ResponseWriter, url, prefix string, err error) {
	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) {
		respondError(w, http.StatusBadRequest, missingURLMessage)
		return
	}
	s.logger.Error().Err(err).Str("url", url).Msg("Target request failed")
	respondError(w, http.StatusInternalServerError, prefix+err.Error())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.targets.Status()
	if status.Targets == nil {
		status.Targets = []string{}
	}
	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
