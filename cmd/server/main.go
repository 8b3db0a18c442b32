package main

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"followerscope/internal/config"
	"followerscope/internal/handlers"
	"followerscope/internal/logger"
	"followerscope/internal/models"
	"followerscope/internal/security"
	"followerscope/internal/session"
	"followerscope/internal/tumblr"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(os.Getenv("DEBUG") == "true")

	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		logger.Log.Fatal().Msg("TUMBLR_CONSUMER_KEY and TUMBLR_CONSUMER_SECRET must be set")
	}
	if cfg.SessionSecret == "" {
		logger.Log.Fatal().Msg("SESSION_SECRET must be set")
	}

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to load templates")
	}
	logger.Log.Info().Msg("templates loaded")

	sessions := session.NewStore(cfg.SessionSecret, cfg.SessionMaxAge)
	limiter := security.NewRateLimiter(1, 5)

	// One API client per request, seeded with the session token if any
	newClient := func(token *models.Token) *tumblr.Client {
		return tumblr.NewClient(cfg.ConsumerKey, cfg.ConsumerSecret, cfg.RedirectURI, token)
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(limiter)
	authHandler := handlers.NewAuthHandler(templates, sessions, newClient)
	blogHandler := handlers.NewBlogHandler(templates, sessions, newClient)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", authHandler.Home)
	mux.HandleFunc("GET /initiate-auth", middleware.RateLimit(authHandler.InitiateAuth))
	mux.HandleFunc("GET /auth", authHandler.Callback)
	mux.HandleFunc("GET /list_blogs", blogHandler.ListBlogs)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info().Str("addr", addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("shutdown failed")
	}
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	files, err := filepath.Glob(filepath.Join(templatesPath, "*.tmpl"))
	if err != nil {
		return nil, err
	}
	return template.ParseFiles(files...)
}
