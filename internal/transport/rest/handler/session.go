package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"formstudio/internal/client"
	"formstudio/internal/draft"
	"formstudio/internal/model"
	"formstudio/internal/registry"
	"formstudio/internal/service"
	"formstudio/internal/transport/rest/middleware"
)

// SessionHandler handles editor session lifecycle endpoints
type SessionHandler struct {
	sessions *service.SessionService
	authSvc  *service.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, authSvc *service.AuthService) *SessionHandler {
	return &SessionHandler{sessions: sessions, authSvc: authSvc}
}

// Open handles POST /v1/editor/sessions
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req model.OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessions.Open(r.Context(), req.TemplateID, req.ReadOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.authSvc.GenerateEditorToken(sess.ID, sess.TemplateID, sess.CanEdit)
	if err != nil {
		h.sessions.Close(sess.ID)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	tmpl := sess.Snapshot()
	writeJSON(w, http.StatusCreated, model.OpenSessionResponse{
		SessionID: sess.ID,
		Token:     token,
		CanEdit:   sess.CanEdit,
		Template:  &tmpl,
	})
}

// Get handles GET /v1/editor/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	tmpl := sess.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": sess.ID,
		"canEdit":   sess.CanEdit,
		"canSave":   canSave(h.sessions, sess.ID),
		"template":  tmpl,
	})
}

func canSave(sessions *service.SessionService, sessionID string) bool {
	ok := false
	sessions.View(sessionID, func(d *draft.Draft) {
		ok = d.CanSave()
	})
	return ok
}

// Close handles DELETE /v1/editor/session
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(middleware.GetSessionID(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"closed": true})
}

// Save handles POST /v1/editor/session/save
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	saved, err := h.sessions.Save(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true, "template": saved})
}

// UpdateMeta handles PATCH /v1/editor/session
func (h *SessionHandler) UpdateMeta(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string             `json:"name"`
		Description *string             `json:"description"`
		Audience    *model.FormAudience `json:"audience"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	if req.Audience != nil {
		if err := h.sessions.SetAudience(r.Context(), sessionID, *req.Audience); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.Name != nil || req.Description != nil {
		err := h.sessions.Mutate(sessionID, func(d *draft.Draft) error {
			if req.Name != nil {
				d.SetName(*req.Name)
			}
			if req.Description != nil {
				d.SetDescription(*req.Description)
			}
			return nil
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service and draft errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error":    verr.Error(),
			"problems": verr.Problems,
			"missing":  verr.MissingCount,
		})
		return
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		writeError(w, http.StatusBadGateway, apiErr.Detail)
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, draft.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrReadOnly), errors.Is(err, service.ErrAccessDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDraftLocked), errors.Is(err, service.ErrSessionDone),
		errors.Is(err, draft.ErrDependentManaged), errors.Is(err, draft.ErrSystemManaged),
		errors.Is(err, draft.ErrLastOption):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, draft.ErrConfirmationRequired):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"error":                err.Error(),
			"confirmationRequired": true,
		})
	case errors.Is(err, registry.ErrUnknownQuestionType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSurveyInactive):
		writeError(w, http.StatusGone, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
