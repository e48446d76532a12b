// Package main provides the HTTP entry point for the questionnaire catalog
// server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/psyq-catalog-server/internal/api"
	"github.com/psyq-catalog-server/internal/config"
	"github.com/psyq-catalog-server/internal/registry"
	"github.com/psyq-catalog-server/internal/service"
)

func main() {
	manager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := manager.GetConfig()

	logger := newLogger(cfg.Logging)

	reg := registry.New(logger)
	count, err := reg.LoadDirectory(cfg.Definitions.Dir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load questionnaire catalog")
	}
	logger.WithField("questionnaires", count).Info("Catalog ready")

	catalog := service.NewCatalog(logger, reg)
	server := api.NewServer(manager, catalog, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("HTTP server failed")
	}

	logger.Info("Questionnaire catalog server stopped")
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
