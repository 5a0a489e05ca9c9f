// billing-worker runs the overdue scan: it derives every alive member's
// billing schedule from the payment history and raises payment_due
// notifications for members whose due date has arrived.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"bafci/internal/amqp"
	"bafci/internal/cli"
	"bafci/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting billing-worker", "scan_interval", cfg.ScanInterval)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, notifications stay in-app only", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	scanner := services.NewOverdueScanner(repo, amqpClient)
	if err := scanner.Run(ctx, cfg.ScanInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Overdue scanner stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Billing worker stopped gracefully")
}
