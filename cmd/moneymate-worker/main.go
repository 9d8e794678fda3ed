package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/franballerio/moneyMate/internal/amqp"
	"github.com/franballerio/moneyMate/internal/cli"
	"github.com/franballerio/moneyMate/internal/log"
	"github.com/franballerio/moneyMate/internal/mirror"
	"github.com/franballerio/moneyMate/internal/mirror/google"
	"github.com/franballerio/moneyMate/internal/mirror/memory"
	"github.com/franballerio/moneyMate/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting moneymate-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	ledger := cli.OpenLedger(logger, cfg.SQLiteDBPath)
	defer ledger.Close()

	ctx, stop := cli.ShutdownContext()
	defer stop()

	var writer mirror.Writer
	if cfg.MirrorBackend == "sheets" {
		sheetsClient, err := google.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		writer = sheetsClient
	} else {
		logger.Info("Using in-memory mirror, rows are not persisted anywhere")
		writer = memory.New()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(ledger, writer, cfg.SyncBatchSize)

	// Catch up on rows that never got a message before consuming new ones.
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", log.FieldError, err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeMirrorSync(ctx, syncWorker.HandleSyncMessage)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := syncWorker.ProcessPending(ctx); err != nil {
					logger.Error("Periodic sync failed", log.FieldError, err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
