package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/sangkips/records-service/internal/config"
	"github.com/sangkips/records-service/internal/logging"
	"github.com/sangkips/records-service/internal/queue"
	"github.com/sangkips/records-service/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLog, err := logging.New(cfg.Log, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}
	defer appLog.Close()
	logger := appLog.With().Str("service", "records-worker").Logger()

	if !cfg.EventsEnabled() {
		logger.Fatal().Msg("RABBITMQ_URL must be set to run the audit worker")
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL, cfg.EventsQueue, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rabbitMQ.Close()

	w := worker.NewWorker(rabbitMQ, worker.NewLogSink(logger), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	if err := w.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("worker failed")
	}

	logger.Info().Msg("worker stopped")
}
