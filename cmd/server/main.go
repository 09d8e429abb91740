package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sangkips/records-service/internal/config"
	"github.com/sangkips/records-service/internal/db"
	"github.com/sangkips/records-service/internal/domains/customers"
	"github.com/sangkips/records-service/internal/domains/orders"
	"github.com/sangkips/records-service/internal/domains/services"
	"github.com/sangkips/records-service/internal/handlers"
	"github.com/sangkips/records-service/internal/health"
	"github.com/sangkips/records-service/internal/logging"
	"github.com/sangkips/records-service/internal/mutation"
	"github.com/sangkips/records-service/internal/queue"
	"github.com/sangkips/records-service/internal/server"
	"github.com/sangkips/records-service/internal/validation"
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
	logger := appLog.With().Str("service", "records-server").Logger()

	database, err := db.ConnectAndMigrate(cfg.DBURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	var publisher mutation.Publisher = mutation.NopPublisher{}
	if cfg.EventsEnabled() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL, cfg.EventsQueue, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rabbitMQ.Close()
		publisher = rabbitMQ
	} else {
		logger.Info().Msg("RABBITMQ_URL not set, record events disabled")
	}

	render, err := handlers.NewRenderer(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	validator := validation.New(cfg.Policy, nil)
	mutations := mutation.New(database, publisher, logger)

	customerService := customers.NewService(customers.NewRepository(database), validator, mutations)
	serviceService := services.NewService(services.NewRepository(database), validator, mutations)
	orderService := orders.NewService(orders.NewRepository(database), validator, mutations)

	router := server.NewRouter(server.Deps{
		Customers:      customers.NewHandler(customerService, render, logger),
		Services:       services.NewHandler(serviceService, render, logger),
		Orders:         orders.NewHandler(orderService, render, logger),
		Health:         health.NewHandler(database, appLog, logger),
		Render:         render,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
