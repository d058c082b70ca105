package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"jobradar/internal/config"
	"jobradar/internal/core/analyze"
	"jobradar/internal/core/board"
	"jobradar/internal/core/extract"
	"jobradar/internal/core/fetch"
	"jobradar/internal/core/history"
	"jobradar/internal/logger"
	"jobradar/internal/platform/browser"
	"jobradar/internal/platform/eino"
	rds "jobradar/internal/platform/redis"
	tasks "jobradar/internal/platform/tasks"
	"jobradar/internal/server"
	"jobradar/internal/worker"
)

func main() {
	cfg := config.Load()
	log.Printf("[jobradar] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	// Initialize logger
	logr := logger.New("main")

	// Redis client
	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	// Asynq client and server
	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	// Browser is optional: without it LinkedIn pages fall back to static
	// fetching, which usually yields the login wall instead of the posting.
	var browserSvc *browser.Service
	if cfg.BrowserEnabled {
		browserSvc, err = browser.New()
		if err != nil {
			logr.LogWarnf("browser unavailable, continuing without it: %v", err)
			browserSvc = nil
		} else {
			defer browserSvc.Close()
		}
	}

	// Core services
	fetchSvc := fetch.NewService(browserSvc)
	extractSvc, err := extract.NewService(fetchSvc, extract.Options{
		SelectorsFile:     cfg.SelectorsFile,
		RenderMaxAttempts: cfg.RenderMaxAttempts,
		RenderInterval:    cfg.RenderInterval,
		Cache:             redisSvc,
	})
	if err != nil {
		log.Fatalf("failed to initialize Extract service: %v", err)
	}
	historySvc := history.NewService(redisSvc, cfg.HistoryCap, cfg.HistoryMaxFieldChars)
	boardSvc := board.NewService(extractSvc)

	// Eino (LLM) service initialized from environment variables
	einoSvc, err := eino.NewService(eino.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.DefaultLLMModel,
	})
	if err != nil {
		log.Fatalf("failed to initialize Eino service: %v", err)
	}

	analyzeSvc := analyze.NewService(einoSvc, historySvc, taskClient, cfg.TaskMaxRetries)

	// Worker mux
	mux := worker.NewMux()
	mux.HandleFunc(tasks.TaskTypeAnalyze, analyzeSvc.HandleAnalyzeTask)

	// Start worker
	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "Jobradar Engine",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})

	// Register routes with health handler
	deps := server.Dependencies{
		Extract: extractSvc,
		History: historySvc,
		Board:   boardSvc,
		Analyze: analyzeSvc,
		Redis:   redisSvc,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	// Mark application as ready after all services are initialized
	go func() {
		time.Sleep(5 * time.Second) // Allow services to fully initialize
		healthHandler.SetReady()
	}()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		asynqServer.Shutdown()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
