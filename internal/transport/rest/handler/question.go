package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"formstudio/internal/draft"
	"formstudio/internal/model"
	"formstudio/internal/service"
	"formstudio/internal/transport/rest/middleware"
)

// QuestionHandler handles draft question mutations
type QuestionHandler struct {
	sessions *service.SessionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(sessions *service.SessionService) *QuestionHandler {
	return &QuestionHandler{sessions: sessions}
}

// Add handles POST /v1/editor/session/questions. Adding the first pair-type
// question to an unclassified form answers 409 with confirmationRequired;
// the client retries with confirmed set after the user accepts.
func (h *QuestionHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type      model.QuestionType `json:"type"`
		Confirmed bool               `json:"confirmed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	if req.Confirmed {
		if err := h.sessions.ConfirmPairType(r.Context(), sessionID, req.Type); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	var ids []string
	err := h.sessions.Mutate(sessionID, func(d *draft.Draft) error {
		var err error
		ids, err = d.AddQuestion(req.Type, req.Confirmed)
		return err
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ids": ids})
}

// Update handles PATCH /v1/editor/session/questions/{id}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Label       *string                `json:"label"`
		Description *string                `json:"description"`
		Required    *bool                  `json:"required"`
		Options     []string               `json:"options"`
		Validation  *model.ValidationRules `json:"validation"`
		Value       *string                `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.sessions.Mutate(middleware.GetSessionID(r.Context()), func(d *draft.Draft) error {
		return d.UpdateQuestion(id, draft.QuestionPatch{
			Label:       req.Label,
			Description: req.Description,
			Required:    req.Required,
			Options:     req.Options,
			Validation:  req.Validation,
			Value:       req.Value,
		})
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Delete handles DELETE /v1/editor/session/questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := h.sessions.Mutate(middleware.GetSessionID(r.Context()), func(d *draft.Draft) error {
		return d.DeleteQuestion(id)
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ChangeType handles PUT /v1/editor/session/questions/{id}/type
func (h *QuestionHandler) ChangeType(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Type model.QuestionType `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.sessions.Mutate(middleware.GetSessionID(r.Context()), func(d *draft.Draft) error {
		return d.ChangeQuestionType(id, req.Type)
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// AddOption handles POST /v1/editor/session/questions/{id}/options
func (h *QuestionHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := h.sessions.Mutate(middleware.GetSessionID(r.Context()), func(d *draft.Draft) error {
		return d.AddOption(id)
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"added": true})
}

// UpdateOption handles PUT /v1/editor/session/questions/{id}/options/{index}
func (h *QuestionHandler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idx, err := optionIndex(vars["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid option index")
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.sessions.Mutate(middleware.GetSessionID(r.Context()), func(d *draft.Draft) error {
		return d.UpdateOption(vars["id"], idx, req.Text)
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// DeleteOption handles DELETE /v1/editor/session/questions/{id}/options/{index}
func (h *QuestionHandler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idx, err := optionIndex(vars["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid option index")
		return
	}

	err = h.sessions.Mutate(middleware.GetSessionID(r.Context()), func(d *draft.Draft) error {
		return d.DeleteOption(vars["id"], idx)
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Reorder handles POST /v1/editor/session/reorder. A missing destination
// means the drop landed nowhere and is a no-op.
func (h *QuestionHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source      int  `json:"source"`
		Destination *int `json:"destination"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dst := -1
	if req.Destination != nil {
		dst = *req.Destination
	}
	err := h.sessions.Mutate(middleware.GetSessionID(r.Context()), func(d *draft.Draft) error {
		return d.Reorder(req.Source, dst)
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reordered": true})
}

// Preview handles GET /v1/editor/session/preview, rendering the draft's
// questions into input controls.
func (h *QuestionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var controls []service.Control
	err := h.sessions.View(middleware.GetSessionID(r.Context()), func(d *draft.Draft) {
		controls = service.RenderForm(d.Questions())
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"controls": controls})
}

func optionIndex(s string) (int, error) {
	return strconv.Atoi(s)
}
