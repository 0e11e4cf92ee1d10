package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/legallens/legal-lens/internal/bootstrap"
	"github.com/legallens/legal-lens/internal/config"
	"github.com/legallens/legal-lens/internal/core/domain"
	"github.com/legallens/legal-lens/internal/observability/logging"
	"github.com/legallens/legal-lens/internal/observability/metrics"
)

// The worker consumes processed-document events for the audit trail and runs
// the retention sweep. It shares the store and queue with the API through
// bootstrap but serves no public endpoints.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		slog.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	go runRetentionSweep(ctx, app, cfg, workerMetrics)

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentProcessed(ctx, func(handlerCtx context.Context, event domain.ProcessedEvent) error {
		workerMetrics.ObserveEventLag("worker", time.Since(event.ProcessedAt))
		workerMetrics.EventConsumed("worker", "success")
		slog.Info("document_processed",
			"document_id", event.DocumentID,
			"file_hash", event.FileHash,
			"document_type", event.DocumentType,
			"risk_score", event.RiskScore,
			"deduplicated", event.Deduplicated,
		)
		return nil
	})
	if err != nil {
		slog.Error("worker subscribe error", "error", err)
		os.Exit(1)
	}
}

func runRetentionSweep(ctx context.Context, app *bootstrap.App, cfg config.Config, workerMetrics *metrics.WorkerMetrics) {
	interval := time.Duration(cfg.CleanupEveryMins) * time.Minute
	maxAge := time.Duration(cfg.RetentionHours) * time.Hour
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sweepCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		removed, err := app.Service.CleanupOldDocuments(sweepCtx, maxAge)
		cancel()
		if err != nil {
			workerMetrics.CleanupRun("worker", "error", removed)
			slog.Error("retention_sweep_failed", "error", err)
			continue
		}
		workerMetrics.CleanupRun("worker", "success", removed)
		if removed > 0 {
			slog.Info("retention_sweep", "removed", removed)
		}
	}
}
