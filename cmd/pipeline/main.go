package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medvoz/medscribe/internal/audio"
	"github.com/medvoz/medscribe/internal/config"
	"github.com/medvoz/medscribe/internal/logger"
	"github.com/medvoz/medscribe/internal/metrics"
	"github.com/medvoz/medscribe/internal/pipeline"
	"github.com/medvoz/medscribe/internal/recognition"
	"github.com/medvoz/medscribe/internal/refine"
	"github.com/medvoz/medscribe/internal/watcher"
	"github.com/medvoz/medscribe/pkg/executor"
)

func main() {
	ctx := context.Background()

	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// Secrets come from the environment; a local .env file is optional.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Clinical Dictation Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "CPU Cores: %d", runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Configuration loaded successfully")

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	if !executor.Available("ffmpeg") {
		log.Warn(ctx, "ffmpeg not found on PATH; recordings will be sent without normalization")
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		go serveMetrics(ctx, cfg.Metrics.Address, log)
	}

	// Initialize dependencies
	recognizer, err := recognition.New(recognition.Config{
		Endpoint:          cfg.Recognition.Endpoint,
		APIKey:            cfg.Recognition.APIKey,
		Language:          cfg.Recognition.Language,
		AttemptTimeout:    cfg.Recognition.GetAttemptTimeout(),
		TimeoutWidening:   cfg.Recognition.GetTimeoutWidening(),
		RetryBackoff:      cfg.Recognition.GetRetryBackoff(),
		MaxAttempts:       cfg.Recognition.MaxAttempts,
		CalibrationWindow: cfg.Recognition.GetCalibrationWindow(),
	}, log, m)
	if err != nil {
		log.Error(ctx, "Failed to create recognizer: %v", err)
		os.Exit(1)
	}

	refiner := refine.New(cfg.Refine.APIKeys, cfg.Refine.Model, log, m)
	if !refiner.Available() {
		log.Warn(ctx, "No Gemini API keys configured; transcripts will not be refined or summarized")
	}

	normalizer := audio.NewNormalizer(executor.New(), log, cfg.Paths.Temp, cfg.Audio.MinInputBytes)
	pipe := pipeline.New(cfg, normalizer, recognizer, refiner, log, m)

	// Create watcher with the pipeline as handler and concurrency control
	w, err := watcher.New(cfg.Paths.Inbox, pipe.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start watcher in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Start(ctx)
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Dictation pipeline is ready!")
	log.Info(ctx, "Inbox: %s", cfg.Paths.Inbox)
	log.Info(ctx, "Transcripts: %s", cfg.Paths.Transcripts)
	log.Info(ctx, "Exports: %s (%s)", cfg.Paths.Exports, strings.Join(cfg.Export.Formats, ", "))
	log.Info(ctx, "Recognition: %s (%s)", cfg.Recognition.Endpoint, cfg.Recognition.Language)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or watcher failure
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
		log.Info(ctx, "Shutting down gracefully...")
		cancel()
		// Start returns once in-flight dictations finish.
		<-errChan
	case err := <-errChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, "Watcher error: %v", err)
		}
	}

	log.Info(ctx, "Dictation pipeline stopped")
}

// serveMetrics exposes the Prometheus registry over HTTP.
func serveMetrics(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info(ctx, "Metrics listening on http://%s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error(ctx, "Metrics server error: %v", err)
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Inbox,
		cfg.Paths.Recordings,
		cfg.Paths.Transcripts,
		cfg.Paths.Exports,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
