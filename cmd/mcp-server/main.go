// Package main provides the stdio MCP entry point for the questionnaire
// catalog.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/psyq-catalog-server/internal/config"
	"github.com/psyq-catalog-server/internal/mcp"
	"github.com/psyq-catalog-server/internal/registry"
	"github.com/psyq-catalog-server/internal/service"
)

func main() {
	manager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := manager.GetConfig()

	// Stdout carries the MCP wire protocol, keep logs on stderr.
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	reg := registry.New(logger)
	count, err := reg.LoadDirectory(cfg.Definitions.Dir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load questionnaire catalog")
	}
	logger.WithField("questionnaires", count).Info("Catalog ready")

	catalog := service.NewCatalog(logger, reg)
	server := mcp.NewServer(catalog, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("MCP server failed")
	}
}
