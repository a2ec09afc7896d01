package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobarin/cutplanner/internal/api"
	"github.com/bobarin/cutplanner/internal/config"
	"github.com/bobarin/cutplanner/internal/db"
	"github.com/bobarin/cutplanner/internal/ingest"
	"github.com/bobarin/cutplanner/internal/queue"
	"github.com/bobarin/cutplanner/internal/storage"
	"github.com/bobarin/cutplanner/internal/worker"
)

func main() {
	log.Println("Starting cutplanner API...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("Connected to database")

	q, err := queue.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()
	log.Println("Connected to Redis queue")

	stor := storage.New(cfg.StorageBaseURL, cfg.StorageAPIKey, cfg.StorageBucket)
	log.Println("Initialized object storage")

	var transcriber ingest.Transcriber
	if cfg.OpenAIKey != "" {
		transcriber = ingest.NewWhisperTranscriber(cfg.OpenAIKey)
		log.Println("Audio transcription enabled (Whisper)")
	} else {
		log.Println("OPENAI_API_KEY not set — /v1/jobs/from-audio is disabled")
	}

	handler := api.NewHandler(database, q, stor, transcriber)
	router := api.NewRouter(handler, api.RouterConfig{
		BackendAPIKey:      cfg.BackendAPIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	if cfg.BackendAPIKey != "" {
		log.Println("API key authentication enabled")
	} else {
		log.Println("WARNING: No BACKEND_API_KEY set — API is unprotected (dev mode)")
	}

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	var workerCancel context.CancelFunc
	if cfg.WorkerEnabled {
		log.Println("Worker enabled, starting background processing...")

		w := worker.New(database, q, stor, cfg.CutplanConfig(), cfg.SubtitlesConfig(), cfg.MaxConcurrentJobs)

		var workerCtx context.Context
		workerCtx, workerCancel = context.WithCancel(context.Background())
		go w.Start(workerCtx, cfg.MaxConcurrentJobs)
	}

	go func() {
		log.Printf("API listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")

	if workerCancel != nil {
		workerCancel()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
