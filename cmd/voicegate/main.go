package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voicegate/voicegate/internal/buildinfo"
	"github.com/voicegate/voicegate/internal/cache"
	"github.com/voicegate/voicegate/internal/config"
	"github.com/voicegate/voicegate/internal/elevenlabs"
	"github.com/voicegate/voicegate/internal/logging"
	"github.com/voicegate/voicegate/internal/server"
	"github.com/voicegate/voicegate/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flagConfig := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	// Environment variables may come from a .env file during development.
	_ = godotenv.Load()

	cfg, err := config.Loader{Path: *flagConfig}.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Env,
		logging.WithLevel(cfg.LogLevel),
		logging.WithLogFile(cfg.LogFile),
	)
	slog.SetDefault(logger)

	logger.Info("starting gateway",
		"service", buildinfo.Info.Name,
		"version", buildinfo.Version(),
		"listen_addr", cfg.ListenAddr,
		"voice_id", cfg.VoiceID,
		"model", cfg.Model,
		"stability", logFloatPtrField(cfg.Stability),
		"similarity_boost", logFloatPtrField(cfg.SimilarityBoost),
	)

	recorder := telemetry.NewRecorder(logger)

	// Bind the port before the engine is ready so external readiness checks
	// can connect while initialization finishes.
	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.Error("failed to bind listener", "error", err)
		os.Exit(1)
	}
	defer lis.Close()
	logger.Info("listener bound, port ready", "addr", lis.Addr().String())

	var engine elevenlabs.Engine
	if cfg.UseStubEngine {
		engine = elevenlabs.NewStubEngine(logger)
		logger.Info("using STUB engine — responses are deterministic, NOT from ElevenLabs API")
	} else {
		engine = elevenlabs.NewClient(cfg.APIKey)
		logger.Info("ElevenLabs client initialized")
	}

	var audioCache *cache.Cache
	if cfg.CacheMaxSizeMB > 0 && cfg.CacheDir != "" {
		audioCache, err = cache.New(cfg.CacheDir, int64(cfg.CacheMaxSizeMB)*1024*1024, logger)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without", "error", err)
		} else {
			logger.Info("audio cache initialized", "dir", cfg.CacheDir, "max_size_mb", cfg.CacheMaxSizeMB)
		}
	}

	gw := server.New(cfg, logger, engine, recorder, audioCache)

	httpServer := &http.Server{
		Handler:           gw.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	logger.Info("gateway ready to serve requests")

	select {
	case err := <-serverErr:
		logger.Error("HTTP server terminated with error", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		// Normal shutdown via signal
	}

	logger.Info("shutdown requested, stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful stop timed out, forcing close", "error", err)
		httpServer.Close()
	}

	stats := recorder.Snapshot()
	logger.Info("gateway stopped",
		"synthesize_requests", stats.SynthesizeRequests,
		"clone_requests", stats.CloneRequests,
		"cache_hits", stats.CacheHits,
		"audio_bytes", stats.AudioBytes,
	)
}

func logFloatPtrField(v *float64) any {
	if v == nil {
		return "default"
	}
	return *v
}
