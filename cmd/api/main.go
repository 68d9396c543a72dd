package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/api/handlers"
	"github.com/skillmap/engine/internal/assessment"
	"github.com/skillmap/engine/internal/cache/memory"
	redisCache "github.com/skillmap/engine/internal/cache/redis"
	"github.com/skillmap/engine/internal/gap"
	"github.com/skillmap/engine/internal/llm"
	"github.com/skillmap/engine/internal/metrics"
	"github.com/skillmap/engine/internal/middleware/ratelimit"
	"github.com/skillmap/engine/internal/middleware/security"
	"github.com/skillmap/engine/internal/middleware/validation"
	"github.com/skillmap/engine/internal/resources"
	"github.com/skillmap/engine/internal/storage/sqlite"
	"github.com/skillmap/engine/internal/suggestions"
	"github.com/skillmap/engine/internal/upstream"
	"github.com/skillmap/engine/pkg/config"
	appLogger "github.com/skillmap/engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Skillmap Engine API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	platform := upstream.NewClient(
		cfg.Upstream.BaseURL,
		cfg.Upstream.APIToken,
		time.Duration(cfg.Upstream.TimeoutSec)*time.Second,
	)

	var suggestionStore suggestions.Store
	if cfg.Redis.Enabled {
		redisClient, err := redisCache.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
		)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()
		suggestionStore = redisClient
	} else {
		appLogger.Info("Redis disabled, using in-memory suggestion cache")
		suggestionStore = memory.NewStore()
	}

	var generator suggestions.Generator
	if cfg.LLM.APIKey != "" {
		generator = llm.NewClient(
			cfg.LLM.APIKey,
			cfg.LLM.Model,
			cfg.LLM.Temperature,
			cfg.LLM.MaxTokens,
		)
	} else {
		appLogger.Info("No LLM credential configured, generated suggestions disabled")
	}

	suggestionService := suggestions.NewService(
		suggestionStore,
		platform,
		generator,
		cfg.Assessment.SuggestionCacheTTL,
	)

	analyzer := gap.NewAnalyzer(gap.Config{
		ResumeBoostYears:   float64(cfg.Assessment.ResumeBoostYears),
		DefaultTargetLevel: cfg.Assessment.DefaultTargetLevel,
		TopOpportunities:   cfg.Assessment.TopOpportunities,
	}, appLogger.GetLogger())

	matcher := resources.NewMatcher(cfg.Assessment.TopResources, appLogger.GetLogger())
	registry := assessment.NewRegistry()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-Token",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))

	limiter := ratelimit.New(ratelimit.Config{
		Logger: appLogger.GetLogger(),
	})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	sessionHandler := handlers.NewSessionHandler(platform, registry, sqliteClient, cfg.Assessment.BatchSize)
	gapHandler := handlers.NewGapHandler(platform, sqliteClient, analyzer)
	resourcesHandler := handlers.NewResourcesHandler(matcher)
	suggestionsHandler := handlers.NewSuggestionsHandler(suggestionService, sqliteClient)
	wsHandler := handlers.NewWebSocketHandler(registry)

	api := app.Group("/api/v1")

	api.Post("/sessions", sessionHandler.StartSession)
	api.Get("/sessions/:token", sessionHandler.GetSession)
	api.Post("/sessions/:token/responses", sessionHandler.SubmitResponse)
	api.Post("/sessions/:token/batch/responses", sessionHandler.SubmitBatch)
	api.Post("/sessions/:token/events", sessionHandler.TrackEvent)
	api.Post("/sessions/:token/retry", sessionHandler.RetrySession)
	api.Get("/sessions/:token/progress", sessionHandler.GetProgress)

	api.Post("/sessions/:token/gap-report", gapHandler.AnalyzeGaps)
	api.Get("/sessions/:token/gap-report", gapHandler.GetLatestReport)

	api.Get("/resources", resourcesHandler.ListCatalog)
	api.Post("/resources/match", resourcesHandler.MatchResources)

	api.Get("/suggestions/:id", suggestionsHandler.GetSuggestions)
	api.Post("/suggestions/:id/refresh", suggestionsHandler.RefreshSuggestions)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/sessions/:token", websocket.New(wsHandler.HandleConnection))

	app.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
