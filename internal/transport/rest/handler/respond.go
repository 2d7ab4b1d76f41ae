package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"formstudio/internal/service"
)

// RespondHandler handles respondent session endpoints
type RespondHandler struct {
	respondents *service.RespondentService
}

// NewRespondHandler creates a new respond handler
func NewRespondHandler(respondents *service.RespondentService) *RespondHandler {
	return &RespondHandler{respondents: respondents}
}

// Start handles POST /v1/respond/sessions
func (h *RespondHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SurveyID  string `json:"surveyId"`
		AccessKey string `json:"accessKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.respondents.Start(r.Context(), req.SurveyID, req.AccessKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// Get handles GET /v1/respond/sessions/{id}
func (h *RespondHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.respondents.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Answer handles POST /v1/respond/sessions/{id}/answers
func (h *RespondHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.respondents.Answer(r.Context(), mux.Vars(r)["id"], req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
