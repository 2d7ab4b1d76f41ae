package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"formstudio/internal/model"
)

// AuthService issues and validates editor session tokens
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(secret string) *AuthService {
	return &AuthService{jwtSecret: []byte(secret)}
}

// GenerateEditorToken creates a session-scoped token. CanEdit false yields a
// read-only token: mutating endpoints reject it without consulting state.
func (s *AuthService) GenerateEditorToken(sessionID, templateID string, canEdit bool) (string, error) {
	claims := &model.EditorClaims{
		SessionID:  sessionID,
		TemplateID: templateID,
		CanEdit:    canEdit,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateEditorToken validates an editor JWT and returns its claims
func (s *AuthService) ValidateEditorToken(tokenString string) (*model.EditorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.EditorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.EditorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
