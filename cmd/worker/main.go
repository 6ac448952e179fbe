package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"productposts/internal/config"
	"productposts/internal/database"
	"productposts/internal/events"
	"productposts/internal/importer"
	"productposts/internal/logger"
	"productposts/internal/models"
	"productposts/internal/repository"
	"productposts/internal/services/diffbot"
	"productposts/internal/worker"
	"productposts/internal/worker/processors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel, cfg.IsProduction())
	defer logger.Sync()

	if len(cfg.Brokers()) == 0 {
		logger.Fatal("KAFKA_BROKERS is empty, nothing to consume")
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	posts := repository.NewPostRepository(db.DB)
	settings := repository.NewSettingRepository(db.DB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := repository.EnsureValue(ctx, settings, models.SettingAPIKey, cfg.DiffbotToken); err != nil {
		logger.Fatal("Failed to seed Diffbot credential: %v", err)
	}

	publisher := events.NewPublisher(cfg.Brokers(), cfg.KafkaTopic, logger)
	defer publisher.Close()

	imp := importer.New(settings, posts, importer.DiffbotConnectors(
		diffbot.WithBaseURL(cfg.DiffbotAPIURL),
		diffbot.WithTimeout(cfg.DiffbotTimeout),
		diffbot.WithLogger(logger),
	), logger, importer.WithNotifier(publisher))

	// Initialize worker
	w := worker.New(cfg, logger, processors.NewEventProcessor(imp, logger))

	// Start worker
	logger.Info("Starting worker...")
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped: %v", err)
	}

	logger.Info("Shutting down worker...")
	if err := w.Stop(); err != nil {
		logger.Error("Failed to close consumer: %v", err)
	}
}
