package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"formstudio/internal/model"
	"formstudio/internal/service"
)

// GoalHandler handles the goal-to-survey flow
type GoalHandler struct {
	metrics *service.MetricService
	forms   *service.FormService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(metrics *service.MetricService, forms *service.FormService) *GoalHandler {
	return &GoalHandler{metrics: metrics, forms: forms}
}

// Create handles POST /v1/goals
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := h.metrics.CreateGoal(r.Context(), req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// Get handles GET /v1/goals/{id}
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goal, err := h.metrics.GetGoal(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// UpdateMetrics handles PUT /v1/goals/{id}/metrics
func (h *GoalHandler) UpdateMetrics(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Metrics []model.Metric `json:"metrics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.metrics.UpdateMetrics(r.Context(), mux.Vars(r)["id"], req.Metrics); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Publish handles POST /v1/goals/{id}/publish
func (h *GoalHandler) Publish(w http.ResponseWriter, r *http.Request) {
	surveyID, err := h.metrics.Publish(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"surveyId": surveyID})
}

// GetSurvey handles GET /v1/surveys/{id}
func (h *GoalHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := h.metrics.GetSurvey(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// CreateForm handles POST /v1/forms, building a form from a survey's
// metrics and rendering its question controls.
func (h *GoalHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string         `json:"title"`
		Description string         `json:"description"`
		Metrics     []model.Metric `json:"metrics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	questions, formID, err := h.forms.CreateForm(r.Context(), req.Title, req.Description, req.Metrics)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"formId":    formID,
		"questions": questions,
		"controls":  service.RenderForm(questions),
	})
}

// SubmitForm handles POST /v1/forms/{id}/submit. Preview submissions
// validate without touching the backend.
func (h *GoalHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Questions []model.Question `json:"questions"`
		Responses map[string]any   `json:"responses"`
		Preview   bool             `json:"preview"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state := service.NewResponseState()
	for id, v := range req.Responses {
		state.Set(id, v)
	}

	if err := h.forms.Submit(r.Context(), mux.Vars(r)["id"], req.Questions, state, req.Preview); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submitted": true, "preview": req.Preview})
}
