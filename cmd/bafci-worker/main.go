// bafci-worker runs the notification dispatcher and the payment report
// mirror. It consumes dispatch messages from AMQP, delivers SMS through the
// gateway, and periodically pushes unsynced payments to the Google Sheets
// workbook.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"bafci/internal/amqp"
	"bafci/internal/cli"
	"bafci/internal/export"
	gsheet "bafci/internal/export/google"
	"bafci/internal/export/memory"
	"bafci/internal/sms"
	"bafci/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting bafci-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	var gateway sms.Gateway
	if cfg.SMSGatewayURL != "" {
		gateway = sms.NewHTTPGateway(cfg.SMSGatewayURL, cfg.SMSAPIKey, cfg.SMSSenderName)
		logger.Info("SMS gateway initialized", "url", cfg.SMSGatewayURL)
	} else {
		gateway = sms.NewConsoleGateway()
		logger.Info("No SMS gateway configured, messages go to the log")
	}

	var writer export.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := gsheet.New(ctx,
			cfg.GoogleSpreadsheetID, cfg.GoogleSheetName,
			cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = sheets
		logger.Info("Google Sheets report mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = memory.NewWriter()
		logger.Info("No spreadsheet configured, report rows stay in memory")
	}

	dispatcher := worker.NewDispatchWorker(repo, gateway)
	reporter := worker.NewReportWorker(repo, writer, cfg.SyncBatchSize)

	// Catch up on rows a previous run may have left unsynced.
	if _, err := reporter.SyncPending(ctx); err != nil {
		logger.Error("Startup report sync failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeNotifications(gctx, func(msg *amqp.NotificationMessage) error {
			return dispatcher.HandleNotification(gctx, msg)
		})
	})
	g.Go(func() error {
		return reporter.Run(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
