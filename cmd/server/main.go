package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dishalabs/disha-gateway/internal/assessment"
	"github.com/dishalabs/disha-gateway/internal/config"
	"github.com/dishalabs/disha-gateway/internal/handler"
	"github.com/dishalabs/disha-gateway/internal/logger"
	"github.com/dishalabs/disha-gateway/internal/result"
	"github.com/dishalabs/disha-gateway/internal/router"
	"github.com/dishalabs/disha-gateway/internal/sten"
	"github.com/dishalabs/disha-gateway/internal/store"
	"github.com/dishalabs/disha-gateway/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Disha Gateway")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ─── Terminal Result Cache ─────────────────────────────────────────
	// Redis when configured, so resolved payloads survive a restart;
	// otherwise in-process.
	var cache result.Cache = store.NewMemoryCache()
	if cfg.RedisURL != "" {
		rdb, err := store.NewRedisClient(appCtx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		cache = store.NewRedisCache(rdb, log)
	}

	// ─── Counselor Client ──────────────────────────────────────────────
	// Without a configured backend every result session resolves with the
	// bundled fallback payload.
	var counselorClient *result.Client
	if cfg.CounselorAPIURL != "" {
		counselorClient = result.NewClient(cfg.CounselorAPIURL, cfg.CounselorVertical, log)
	} else {
		log.Warn().Msg("No counselor backend configured, results resolve locally")
	}

	// ─── Result Registry ───────────────────────────────────────────────
	var statusClient result.StatusClient
	if counselorClient != nil {
		statusClient = counselorClient
	}
	registry := store.NewResultRegistry(appCtx, statusClient, cfg.PollInterval, cache, log)

	// ─── Assessment Sessions ───────────────────────────────────────────
	// Submissions flow into the result registry: scores go upstream when
	// a backend is configured, and either way a result session starts
	// with a score-derived fallback payload ready.
	submitFn := func(sub assessment.Submission) (string, error) {
		stenProfile, err := sten.Profile(sub.RawScores, sub.BasicInfo.Grade, sub.BasicInfo.Gender)
		if err != nil {
			log.Warn().Err(err).Str("session_id", sub.SessionID).Msg("Sten conversion failed")
			stenProfile = nil
		}
		fallback := result.FallbackAnalysis(stenProfile)

		if counselorClient == nil {
			return registry.StartLocal(fallback).SessionID(), nil
		}

		sessionID, err := counselorClient.SubmitSchoolStudent(appCtx, &result.SchoolStudentSubmission{
			BasicInfo:      sub.BasicInfo,
			RawScores:      sub.RawScores,
			InitialMessage: introMessage(sub),
		})
		if err != nil {
			log.Warn().Err(err).Str("session_id", sub.SessionID).Msg("Score submission failed, resolving locally")
			return registry.StartLocal(fallback).SessionID(), nil
		}

		registry.StartRemote(sessionID, fallback)
		return sessionID, nil
	}

	sessions := store.NewSessionManager(appCtx, assessment.DefaultBank(), cfg.AssessmentSeconds, submitFn, log)

	// ─── Initialize Handlers ───────────────────────────────────────────
	handlers := &router.Handlers{
		Assessment: handler.NewAssessmentHandler(sessions, log),
		Intake:     handler.NewIntakeHandler(counselorClient, registry, cfg.MaxUploadBytes, log),
		Result:     handler.NewResultHandler(registry, log),
		WS:         handler.NewWSHandler(registry, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop session tickers and result pollers.
	sessions.Shutdown()
	registry.Shutdown()
	appCancel()

	log.Info().Msg("Shutdown complete")
}

// introMessage builds the free-text opener sent with a finished test.
func introMessage(sub assessment.Submission) string {
	return fmt.Sprintf(
		"Hi, I am %s from grade %d at %s. I just finished my aptitude test "+
			"and would like guidance on streams and careers that match my results.",
		sub.BasicInfo.Name, sub.BasicInfo.Grade, sub.BasicInfo.SchoolName,
	)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
