package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/expense-classifier/internal/api/handlers"
	"github.com/dvloznov/expense-classifier/internal/api/middleware"
	"github.com/dvloznov/expense-classifier/internal/config"
	"github.com/dvloznov/expense-classifier/internal/gcs"
	"github.com/dvloznov/expense-classifier/internal/jobs"
	"github.com/dvloznov/expense-classifier/internal/jobs/inmemory"
	"github.com/dvloznov/expense-classifier/internal/llm"
	"github.com/dvloznov/expense-classifier/internal/logger"
	"github.com/dvloznov/expense-classifier/internal/pipeline"
	"github.com/dvloznov/expense-classifier/internal/session"
)

func main() {
	log := logger.New()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Generation service client, shared by classification and advice.
	generator, err := llm.NewGemini(ctx, cfg.Model, cfg.CallTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create generation client")
	}
	runner := pipeline.NewRunner(generator, cfg.ClassifyConcurrency)

	// Session and job state, all in-memory and session-transient.
	sessions := session.NewStore()
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 2, jobStore)

	var fetcher gcs.Fetcher
	if cfg.Bucket != "" {
		fetcher = gcs.NewClient()
	} else {
		log.Warn().Msg("No GCS bucket configured - gs:// table ingestion is disabled")
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Each job is one categorize run over a session's table. Failures are
	// recorded on the job and surfaced to the user; nothing here is fatal.
	jobHandler := func(ctx context.Context, job *jobs.CategorizeJob) error {
		sess, err := sessions.Get(job.SessionID)
		if err != nil {
			return err
		}

		log.Info().
			Str("job_id", job.JobID).
			Str("session_id", job.SessionID).
			Int("rows", sess.Table.Len()).
			Msg("Processing categorize run")

		result, err := runner.Run(ctx, sess.Table, sess.Budget)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", job.JobID).
				Str("session_id", job.SessionID).
				Msg("Categorize run failed")
			return err
		}

		if result.AdviceError != "" {
			log.Warn().
				Str("job_id", job.JobID).
				Str("advice_error", result.AdviceError).
				Msg("Advice generation failed, categorized data kept")
		}

		return sessions.SetResult(job.SessionID, result)
	}

	go func() {
		log.Info().Msg("Starting categorize worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Categorize worker stopped with error")
		}
	}()

	sessionsHandler := handlers.NewSessionsHandler(sessions, jobQueue, fetcher, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", sessionsHandler.CreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", sessionsHandler.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionsHandler.DiscardSession)
	mux.HandleFunc("PUT /api/sessions/{id}/budget", sessionsHandler.SetBudget)
	mux.HandleFunc("POST /api/sessions/{id}/table", sessionsHandler.UploadTable)
	mux.HandleFunc("POST /api/sessions/{id}/table/gcs", sessionsHandler.UploadTableFromGCS)
	mux.HandleFunc("POST /api/sessions/{id}/categorize", sessionsHandler.Categorize)
	mux.HandleFunc("GET /api/sessions/{id}/result", sessionsHandler.GetResult)
	mux.HandleFunc("GET /api/jobs/{id}", jobsHandler.GetJob)
	mux.HandleFunc("GET /api/jobs", jobsHandler.ListJobs)

	handler := middleware.Recovery(log)(middleware.Logger(log)(middleware.CORS(mux)))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	cancelWorker()
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping categorize worker")
	}

	log.Info().Msg("Server exited")
}
