package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"formstudio/internal/cache"
	"formstudio/internal/client"
	"formstudio/internal/config"
	"formstudio/internal/service"
	"formstudio/internal/transport/rest"
	"formstudio/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	log.Printf("Backend API: %s", cfg.BackendAPIURL)

	// Respondent cache: Redis when configured, in-process memory otherwise
	var respondentCache cache.RespondentCache
	if cfg.RedisAddr != "" {
		addr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
		rdb := redis.NewClient(&redis.Options{
			Addr: addr,
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")
		respondentCache = cache.NewRespondentCache(rdb)
	} else {
		log.Println("Warning: REDIS_ADDR not set, using in-memory session cache")
		respondentCache = cache.NewMemoryRespondentCache()
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Backend client
	backend := client.NewBackend(cfg.BackendAPIURL)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	sessionSvc := service.NewSessionService(backend, wsHub, cfg.AutosaveInterval)
	metricSvc := service.NewMetricService(backend)
	formSvc := service.NewFormService(backend)
	respondentSvc := service.NewRespondentService(backend, respondentCache, nil)

	// Create router with container
	container := &rest.Container{
		AuthService:       authSvc,
		SessionService:    sessionSvc,
		MetricService:     metricSvc,
		FormService:       formSvc,
		RespondentService: respondentSvc,
		BackendProber:     backend,
		WSHub:             wsHub,
		RespondentRPS:     cfg.RespondentRPS,
		RespondentBurst:   cfg.RespondentBurst,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/editor/sessions")
		log.Println("  GET/PATCH/DELETE /v1/editor/session")
		log.Println("  POST /v1/editor/session/questions")
		log.Println("  POST /v1/editor/session/reorder")
		log.Println("  POST /v1/goals")
		log.Println("  POST /v1/respond/sessions")
		log.Println("  POST /v1/forms/{id}/submit")
		log.Println("  WS  /v1/ws/editor")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
