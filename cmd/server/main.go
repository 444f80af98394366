// Coach server - AI coaching toolkit over a persistent record store.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/huang-jianhua/cow-coach/internal/api"
	"github.com/huang-jianhua/cow-coach/internal/chat"
	"github.com/huang-jianhua/cow-coach/internal/coach"
	"github.com/huang-jianhua/cow-coach/internal/config"
	"github.com/huang-jianhua/cow-coach/internal/dialogue"
	"github.com/huang-jianhua/cow-coach/internal/identity"
	"github.com/huang-jianhua/cow-coach/internal/middleware"
	"github.com/huang-jianhua/cow-coach/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies. The store is opened once here and closed at
	// shutdown; nothing re-opens it mid-request.
	repo, err := store.NewSQLite(cfg.DBPath, cfg.StoreTimeout)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	coachService := coach.NewService(repo, coach.NewKeywordClassifier(), cfg.CommandPrefix)

	// External dialogue engine (optional).
	var responder api.Responder
	if cfg.DialogueEnabled() {
		engine, err := dialogue.NewGeminiEngine(context.Background(), cfg.Dialogue.GeminiAPIKey, cfg.Dialogue.GeminiModel)
		if err != nil {
			slog.Warn("Failed to initialize dialogue engine, conversational replies disabled", "error", err)
		} else {
			defer func() {
				if closeErr := engine.Close(); closeErr != nil {
					slog.Warn("Failed to close dialogue engine", "error", closeErr)
				}
			}()
			responder = dialogue.NewBridge(engine)
			slog.Info("Dialogue engine initialized", "model", cfg.Dialogue.GeminiModel)
		}
	}
	if responder == nil {
		slog.Info("Dialogue engine disabled (GEMINI_API_KEY not set or init failed)")
	}

	// Initialize handlers.
	handler := api.NewHandler(repo, coachService, responder)
	sm := chat.NewSessionManager()
	wsHandler := chat.NewWebSocketHandler(coachService, responder, sm, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	handler.RegisterRoutes(r)
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
