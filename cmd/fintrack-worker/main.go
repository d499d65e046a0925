package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.Setup()
	logger.Info("Starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	archive, err := storage.NewSQLiteArchive(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite archive", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer archive.Close()

	store, err := storage.NewJSONFileStore(cfg.DataFile)
	if err != nil {
		logger.Error("Failed to initialize JSON file store", "error", err, "path", cfg.DataFile)
		os.Exit(1)
	}

	// Optional spreadsheet export of newly created transactions.
	var exporter worker.Exporter
	if cfg.GoogleSpreadsheetID != "" {
		exp, err := sheets.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = exp
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// The broker may still be starting when we are. Retry the connection
	// with exponential backoff before giving up.
	var amqpClient *amqp.Client
	connect := func() error {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		return err
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(connect, policy); err != nil {
		logger.Error("Failed to connect to AMQP broker", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	archiveWorker := worker.NewArchiveWorker(store, archive, exporter)

	// Catch up on anything missed while the worker was down.
	if err := archiveWorker.Reconcile(ctx); err != nil {
		logger.Error("Startup reconciliation failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeEvents(ctx, archiveWorker.HandleEvent)
	})

	logger.Info("Worker started", "queue", cfg.AMQPQueue)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
