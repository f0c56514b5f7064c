package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/legitima/aiact-agent/internal/bootstrap"
	"github.com/legitima/aiact-agent/internal/config"
	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/core/usecase"
	"github.com/legitima/aiact-agent/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, bootstrap.Options{
		Service:   "worker",
		Logger:    logger,
		WithQueue: true,
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: app.WorkerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker_metrics_error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	pipeline := usecase.NewAssessmentPipeline(
		app.Organizations,
		app.Systems,
		app.Assessor,
		app.Exporter,
		app.Reports,
		app.Queue,
		logger,
	)

	logger.Info("worker_subscribed", "subject", cfg.NATSRequestedSubject)
	err = app.Queue.SubscribeAssessmentRequested(ctx, func(handlerCtx context.Context, event domain.AssessmentRequestedEvent) error {
		runCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		if !event.RequestedAt.IsZero() {
			app.WorkerMetrics.ObserveQueueLag("worker", time.Since(event.RequestedAt))
		}

		app.WorkerMetrics.StartAssessment()
		start := time.Now()
		completed, runErr := pipeline.Run(runCtx, event)
		app.WorkerMetrics.FinishAssessment("worker", time.Since(start), runErr)

		if runErr != nil {
			logger.Error("assessment_failed",
				"event_id", event.EventID,
				"organization", event.OrganizationName,
				"error", runErr,
			)
			return runErr
		}
		logger.Info("assessment_completed",
			"event_id", completed.EventID,
			"organization", completed.Organization,
			"overall_score", completed.OverallScore,
			"risk_level", completed.RiskLevel,
			"report_path", completed.ReportPath,
		)
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
