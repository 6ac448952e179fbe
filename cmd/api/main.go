package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productposts/internal/api"
	"productposts/internal/config"
	connector "productposts/internal/connectors/diffbot"
	"productposts/internal/database"
	"productposts/internal/events"
	"productposts/internal/importer"
	"productposts/internal/logger"
	"productposts/internal/models"
	"productposts/internal/repository"
	"productposts/internal/services/diffbot"
)

func main() {
	uninstall := flag.Bool("uninstall", false, "delete the stored Diffbot credential and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel, cfg.IsProduction())
	defer logger.Sync()

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	posts := repository.NewPostRepository(db.DB)
	settings := repository.NewSettingRepository(db.DB)
	ctx := context.Background()

	if *uninstall {
		if err := settings.Delete(ctx, models.SettingAPIKey); err != nil {
			logger.Fatal("Failed to delete stored credential: %v", err)
		}
		logger.Info("Stored Diffbot credential deleted")
		return
	}

	if seeded, err := repository.EnsureValue(ctx, settings, models.SettingAPIKey, cfg.DiffbotToken); err != nil {
		logger.Fatal("Failed to seed Diffbot credential: %v", err)
	} else if seeded {
		logger.Info("Diffbot credential seeded from DIFFBOT_TOKEN")
	}

	clientOpts := []diffbot.Option{
		diffbot.WithBaseURL(cfg.DiffbotAPIURL),
		diffbot.WithTimeout(cfg.DiffbotTimeout),
		diffbot.WithLogger(logger),
	}

	var importOpts []importer.Option
	deps := api.Dependencies{
		Posts:    posts,
		Settings: settings,
		ValidateKey: func(ctx context.Context, token string) bool {
			return connector.ValidateKey(ctx, token, clientOpts...)
		},
	}

	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher := events.NewPublisher(brokers, cfg.KafkaTopic, logger)
		defer publisher.Close()
		importOpts = append(importOpts, importer.WithNotifier(publisher))
		deps.Queue = publisher
	}
	deps.Importer = importer.New(settings, posts, importer.DiffbotConnectors(clientOpts...), logger, importOpts...)

	// Initialize API server
	server := api.New(cfg, logger, deps)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DiffbotTimeout+5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
