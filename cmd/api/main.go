package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/tuandm-dev/meeting-scribe/pkg/validator"

	_ "github.com/tuandm-dev/meeting-scribe/docs"
	"github.com/tuandm-dev/meeting-scribe/internal/adapter/handler"
	"github.com/tuandm-dev/meeting-scribe/internal/adapter/repository"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/cache"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/database"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/external/transcription"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/storage"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/watcher"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/actionitem"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/auth"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/export"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/meeting"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/pipeline"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/summarizer"
	pkgai "github.com/tuandm-dev/meeting-scribe/pkg/ai"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
	"github.com/tuandm-dev/meeting-scribe/pkg/jwt"
	"github.com/tuandm-dev/meeting-scribe/pkg/logger"
)

// @title           Meeting Scribe API
// @version         1.0
// @description     API for meeting recording ingestion, transcription, LLM summarization, action items and export

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping GORM AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize cache store (Redis when enabled, in-memory otherwise)
	var store cache.Store
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(cfg, zapLogger)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		log.Println("📦 Using in-memory cache store")
		store = cache.NewMemoryStore()
	}

	// Initialize object storage
	log.Println("🪣 Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	actionItemRepo := repository.NewActionItemRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Initialize AI components
	log.Println("🤖 Initializing AI components...")
	aiClient := pkgai.NewClient(&cfg.OpenAI)
	provider, err := transcription.New(cfg, aiClient, zapLogger)
	if err != nil {
		log.Fatalf("Failed to initialize transcription provider: %v", err)
	}
	if err := provider.HealthCheck(context.Background()); err != nil {
		zapLogger.Warn("⚠️ Transcription provider not reachable, jobs will retry",
			zap.String("provider", provider.Name()),
			zap.Error(err),
		)
	}
	summarizerService := summarizer.NewService(aiClient, &cfg.OpenAI, store, zapLogger)
	exporter := export.NewExporter(zapLogger)

	// Initialize processing pipeline
	log.Println("⛓️  Initializing processing pipeline...")
	processor := pipeline.NewService(
		meetingRepo,
		transcriptRepo,
		summaryRepo,
		actionItemRepo,
		jobRepo,
		minioClient,
		provider,
		summarizerService,
		exporter,
		cfg,
		zapLogger,
	)

	// Initialize meeting service
	log.Println("📋 Initializing meeting service...")
	meetingService := meeting.NewMeetingService(
		meetingRepo,
		transcriptRepo,
		summaryRepo,
		actionItemRepo,
		minioClient,
		processor,
		exporter,
		cfg,
		zapLogger,
	)
	actionItemService := actionitem.NewActionItemService(actionItemRepo)

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessExpiry,
		cfg.Auth.RefreshExpiry,
	)
	tokenService := auth.NewTokenService(&cfg.Auth, jwtManager, store, zapLogger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuthHandler(tokenService, zapLogger)
	meetingHandler := handler.NewMeetingHandler(meetingService, zapLogger)
	actionItemHandler := handler.NewActionItemHandler(actionItemService, zapLogger)
	summarizeHandler := handler.NewSummarizeHandler(summarizerService, zapLogger)
	webhookHandler := handler.NewWebhookHandler(processor, cfg.Transcription.WebhookSecret, zapLogger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		jwtManager,
		authHandler,
		meetingHandler,
		actionItemHandler,
		summarizeHandler,
		webhookHandler,
	)
	router.Setup(e)

	// Root context for background components
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker pool for the processing pipeline
	if err := processor.StartWorkerPool(rootCtx); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}

	// Start hot folder watcher when enabled
	var hotFolder *watcher.Watcher
	if cfg.Watcher.Enabled {
		log.Printf("👀 Watching hot folder: %s", cfg.Watcher.Dir)
		hotFolder, err = watcher.New(&cfg.Watcher, func(ctx context.Context, path string) error {
			_, err := meetingService.IngestFile(ctx, path)
			return err
		}, zapLogger)
		if err != nil {
			log.Fatalf("Failed to initialize hot folder watcher: %v", err)
		}
		go func() {
			if err := hotFolder.Start(rootCtx); err != nil && err != context.Canceled {
				zapLogger.Error("hot folder watcher stopped", zap.Error(err))
			}
		}()
	}

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	cancel()
	if hotFolder != nil {
		if err := hotFolder.Stop(); err != nil {
			log.Printf("⚠️  Watcher shutdown: %v", err)
		}
	}
	if err := processor.StopWorkerPool(); err != nil {
		log.Printf("⚠️  Worker pool shutdown: %v", err)
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
