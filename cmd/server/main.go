package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peerprep/interview/internal/agents"
	"peerprep/interview/internal/config"
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/history"
	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/jobs"
	"peerprep/interview/internal/llm"
	_ "peerprep/interview/internal/llm/gemini"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/questionbank"
	"peerprep/interview/internal/routers"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func registerRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, historyHandler *handlers.HistoryHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler, historyHandler)
	router.Handle("/metrics", metrics.Handler())
}

// sessionBackend bundles the session store with whatever keeps it healthy
type sessionBackend struct {
	store   interview.Store
	pinger  handlers.Pinger
	locker  interview.Locker // nil keeps the controller's process-local locker
	sweeper *jobs.SessionSweeperJob
	close   func() error
}

func newSessionBackend(cfg *config.Config, logger *zap.Logger) (*sessionBackend, error) {
	switch cfg.SessionStore {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		rs := store.NewRedisStore(rdb, cfg.SessionTTL)
		return &sessionBackend{
			store:  rs,
			pinger: rs,
			locker: store.NewRedisLocker(rdb, cfg.SessionLockTTL, logger),
			close:  rdb.Close,
		}, nil
	default:
		ms := store.NewMemoryStore(cfg.SessionTTL)
		return &sessionBackend{
			store:   ms,
			pinger:  ms,
			sweeper: jobs.NewSessionSweeperJob(ms, cfg.SweepSchedule, logger),
			close:   func() error { return nil },
		}, nil
	}
}

// newQuestionSource picks between LLM-generated pools and the curated bank.
// The bank still uses the LLM for follow-ups.
func newQuestionSource(ctx context.Context, cfg *config.Config, generator *agents.QuestionGenerator, logger *zap.Logger) (interview.QuestionSource, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if cfg.QuestionSource != "bank" {
		return generator, noop, nil
	}

	client, err := questionbank.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to connect to question bank: %w", err)
	}
	col, err := client.Collection(cfg.QuestionsDB, cfg.QuestionsCollection)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, noop, err
	}
	logger.Info("Question bank connected",
		zap.String("db", cfg.QuestionsDB),
		zap.String("collection", cfg.QuestionsCollection))
	return questionbank.NewBank(col, generator, logger), client.Disconnect, nil
}

// initDatabase opens the PostgreSQL history archive
func initDatabase(cfg *config.Config, logger *zap.Logger) (*history.Archive, error) {
	if !cfg.Postgres.Enabled() {
		return nil, errors.New("POSTGRES_HOST, POSTGRES_USER and POSTGRES_DB are not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	archive := history.NewArchive(db, logger)
	if err := archive.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return archive, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	logger := utils.GetLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("session_store", cfg.SessionStore),
		zap.String("question_source", cfg.QuestionSource))

	// prompt manager
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// AI provider based on configuration
	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	evaluator := agents.NewEvaluator(aiProvider, promptManager, logger)
	generator := agents.NewQuestionGenerator(aiProvider, promptManager, logger)
	reporter := agents.NewReportWriter(aiProvider, promptManager, logger)

	backend, err := newSessionBackend(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize session store", zap.Error(err))
	}

	source, closeSource, err := newQuestionSource(context.Background(), cfg, generator, logger)
	if err != nil {
		logger.Fatal("Failed to initialize question source", zap.Error(err))
	}

	opts := []interview.Option{
		interview.WithObserver(metrics.Recorder{}),
		interview.WithPolicy(interview.NewPolicy(cfg.ClosingWindow)),
		interview.WithBounds(interview.Bounds{
			MinMinutes: cfg.MinDurationMinutes,
			MaxMinutes: cfg.MaxDurationMinutes,
			MaxTurns:   cfg.MaxTurns,
		}),
	}
	if backend.locker != nil {
		opts = append(opts, interview.WithLocker(backend.locker))
	}

	// Initialize history archive (only if database is available)
	var historyReader handlers.HistoryReader
	var exporterJob *jobs.TranscriptExporterJob

	archive, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize database, interview history will be disabled", zap.Error(err))
	} else {
		opts = append(opts, interview.WithArchiver(archive))
		historyReader = archive

		exporterConfig := &jobs.ExporterConfig{
			Schedule:      cfg.HistoryExportSchedule,
			ExportDir:     cfg.HistoryExportDir,
			ExportEnabled: cfg.HistoryExportEnabled,
		}
		exporterJob = jobs.NewTranscriptExporterJob(archive, exporterConfig, logger)
		if err := exporterJob.Start(); err != nil {
			logger.Error("Failed to start transcript exporter job", zap.Error(err))
		}
		logger.Info("Interview history initialized successfully")
	}

	if backend.sweeper != nil {
		if err := backend.sweeper.Start(); err != nil {
			logger.Error("Failed to start session sweeper", zap.Error(err))
		}
	}

	controller := interview.NewController(backend.store, evaluator, source, reporter, logger, opts...)

	interviewHandler := handlers.NewInterviewHandler(controller, cfg.ResumeNameCheck, logger)
	historyHandler := handlers.NewHistoryHandler(historyReader, logger)
	healthHandler := handlers.NewHealthHandler(aiProvider, promptManager, cfg, backend.pinger)

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware("interview"))

	registerRoutes(router, interviewHandler, historyHandler, healthHandler)

	serverAddr := ":" + cfg.Port

	// writes cover end-of-interview report generation
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	if exporterJob != nil {
		exporterJob.Stop()
	}
	if backend.sweeper != nil {
		backend.sweeper.Stop()
	}

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	if err := closeSource(ctx); err != nil {
		logger.Warn("Failed to disconnect question bank", zap.Error(err))
	}
	if err := backend.close(); err != nil {
		logger.Warn("Failed to close session store", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
