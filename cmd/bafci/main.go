package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bafci/internal/amqp"
	"bafci/internal/cli"
	apphttp "bafci/internal/http"
	"bafci/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The API keeps working without a broker; notifications then stay
	// in-app only until the queue comes back.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, notifications will not be dispatched", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	srv := apphttp.NewServer(
		":"+cfg.Port,
		cfg.APIToken,
		repo,
		services.NewMemberService(repo, amqpClient),
		services.NewPaymentService(repo, amqpClient, cfg.LateFeePercent),
		services.NewRevenueService(repo),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	if err := srv.Start(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
