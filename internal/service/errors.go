package service

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrDraftLocked     = errors.New("template is being edited in another session")
	ErrReadOnly        = errors.New("session has no edit rights")
	ErrInvalidToken    = errors.New("invalid token")
	ErrAccessDenied    = errors.New("invalid access key")
	ErrSurveyInactive  = errors.New("survey is not active")
	ErrSessionDone     = errors.New("session already completed")
)
