package rest

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"formstudio/internal/service"
	"formstudio/internal/transport/rest/handler"
	"formstudio/internal/transport/rest/middleware"
	"formstudio/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	SessionService    *service.SessionService
	MetricService     *service.MetricService
	FormService       *service.FormService
	RespondentService *service.RespondentService
	BackendProber     handler.BackendProber
	WSHub             *ws.Hub

	RespondentRPS   float64
	RespondentBurst int
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.AuthService)
	questionHandler := handler.NewQuestionHandler(c.SessionService)
	goalHandler := handler.NewGoalHandler(c.MetricService, c.FormService)
	respondHandler := handler.NewRespondHandler(c.RespondentService)
	healthHandler := handler.NewHealthHandler(c.BackendProber)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)
	respondLimiter := middleware.NewIPRateLimiter(c.RespondentRPS, c.RespondentBurst, 5*time.Minute)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/editor/sessions", sessionHandler.Open).Methods("POST", "OPTIONS")
	v1.HandleFunc("/test-connection", healthHandler.TestConnection).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/editor", wsHandler.EditorWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	// Editor routes (require an editor token)
	editorRoutes := v1.NewRoute().Subrouter()
	editorRoutes.Use(authMW.RequireEditor)

	editorRoutes.HandleFunc("/editor/session", sessionHandler.Get).Methods("GET", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session", sessionHandler.UpdateMeta).Methods("PATCH", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session", sessionHandler.Close).Methods("DELETE", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session/save", sessionHandler.Save).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session/preview", questionHandler.Preview).Methods("GET", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session/reorder", questionHandler.Reorder).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session/questions", questionHandler.Add).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session/questions/{id}", questionHandler.Update).Methods("PATCH", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session/questions/{id}", questionHandler.Delete).Methods("DELETE", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session/questions/{id}/type", questionHandler.ChangeType).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session/questions/{id}/options", questionHandler.AddOption).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session/questions/{id}/options/{index}", questionHandler.UpdateOption).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/editor/session/questions/{id}/options/{index}", questionHandler.DeleteOption).Methods("DELETE", "OPTIONS")

	// Goal and form routes (require an editor token)
	editorRoutes.HandleFunc("/goals", goalHandler.Create).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/goals/{id}", goalHandler.Get).Methods("GET", "OPTIONS")
	editorRoutes.HandleFunc("/goals/{id}/metrics", goalHandler.UpdateMetrics).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/goals/{id}/publish", goalHandler.Publish).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/surveys/{id}", goalHandler.GetSurvey).Methods("GET", "OPTIONS")
	editorRoutes.HandleFunc("/forms", goalHandler.CreateForm).Methods("POST", "OPTIONS")

	// Respondent routes (public, rate limited per IP)
	respond := v1.NewRoute().Subrouter()
	respond.Use(respondLimiter.Limit)

	respond.HandleFunc("/respond/sessions", respondHandler.Start).Methods("POST", "OPTIONS")
	respond.HandleFunc("/respond/sessions/{id}", respondHandler.Get).Methods("GET", "OPTIONS")
	respond.HandleFunc("/respond/sessions/{id}/answers", respondHandler.Answer).Methods("POST", "OPTIONS")
	respond.HandleFunc("/forms/{id}/submit", goalHandler.SubmitForm).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
