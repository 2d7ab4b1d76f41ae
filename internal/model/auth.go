package model

import "github.com/golang-jwt/jwt/v5"

// EditorClaims are JWT claims for editor-session tokens
type EditorClaims struct {
	SessionID  string `json:"sessionId"`
	TemplateID string `json:"templateId,omitempty"`
	CanEdit    bool   `json:"canEdit"`
	jwt.RegisteredClaims
}

// OpenSessionRequest is the request body for opening an editor session
type OpenSessionRequest struct {
	TemplateID string `json:"templateId,omitempty"`
	ReadOnly   bool   `json:"readOnly,omitempty"`
}

// OpenSessionResponse is returned after an editor session is opened
type OpenSessionResponse struct {
	SessionID string        `json:"sessionId"`
	Token     string        `json:"token"`
	CanEdit   bool          `json:"canEdit"`
	Template  *FormTemplate `json:"template"`
}
