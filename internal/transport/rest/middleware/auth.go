package middleware

import (
	"context"
	"net/http"
	"strings"

	"formstudio/internal/service"
)

type contextKey string

const (
	SessionIDKey  contextKey = "sessionId"
	TemplateIDKey contextKey = "templateId"
	CanEditKey    contextKey = "canEdit"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireEditor validates an editor JWT from the Authorization header, or
// from the token query param for WebSocket upgrades.
func (m *AuthMiddleware) RequireEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateEditorToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
		ctx = context.WithValue(ctx, TemplateIDKey, claims.TemplateID)
		ctx = context.WithValue(ctx, CanEditKey, claims.CanEdit)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the editor session id from context
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(SessionIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetTemplateID extracts the template id from context
func GetTemplateID(ctx context.Context) string {
	if v := ctx.Value(TemplateIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// CanEdit reports whether the token grants write access
func CanEdit(ctx context.Context) bool {
	if v := ctx.Value(CanEditKey); v != nil {
		return v.(bool)
	}
	return false
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
