package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"linguaspeak/internal/config"
	"linguaspeak/internal/correction"
	"linguaspeak/internal/database"
	"linguaspeak/internal/handlers"
	"linguaspeak/internal/llm"
	"linguaspeak/internal/logger"
	"linguaspeak/internal/observe"
	"linguaspeak/internal/security"
	"linguaspeak/internal/service"
	"linguaspeak/migrations"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, pgx, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database connection established", zap.String("type", cfg.DatabaseType))

	if err := db.RunMigrations(ctx, migrations.Source(cfg.MigrationsPath), log); err != nil {
		return err
	}
	log.Info("migrations completed successfully")

	// Metrics
	meterProvider, err := observe.InitProvider()
	if err != nil {
		return err
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	metrics, err := observe.NewMetrics(meterProvider)
	if err != nil {
		return err
	}

	// Language model
	provider, err := llm.NewProvider(ctx, llm.ConfigFrom(cfg.AI), log, metrics)
	if err != nil {
		return err
	}
	log.Info("language model ready", zap.String("provider", cfg.AI.Provider), zap.String("model", provider.ModelID()))

	emailService, err := service.NewEmailService(ctx, cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, log)
	if err != nil {
		return err
	}

	limiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	defer limiter.Stop()

	// Initialize services
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	locks := service.NewUserLocks()
	authService := service.NewAuthService(db, tokens, emailService, log)
	practiceService := service.NewPracticeService(db, correction.NewClient(provider, log, metrics), locks, log)
	profileService := service.NewProfileService(db, locks, log)
	statsService := service.NewStatsService(db)
	vocabularyService := service.NewVocabularyService(db)

	// Setup routes
	mux := handlers.Routes(handlers.Handlers{
		Middleware: handlers.NewMiddleware(authService, limiter, log),
		Auth:       handlers.NewAuthHandler(authService, log),
		Speech:     handlers.NewSpeechHandler(practiceService, log),
		User:       handlers.NewUserHandler(profileService, statsService, practiceService, log),
		Vocabulary: handlers.NewVocabularyHandler(vocabularyService, log),
		System:     handlers.NewSystemHandler(db, log),
		Metrics:    observe.Handler(),
	})

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      observe.Middleware(metrics, log)(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

