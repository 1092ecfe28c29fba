package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/finaccosolutions/finacco-backend/internal/api"
	"github.com/finaccosolutions/finacco-backend/internal/api/routes"
	"github.com/finaccosolutions/finacco-backend/internal/config"
	"github.com/finaccosolutions/finacco-backend/internal/libraries"
	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/metrics"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	if err := logger.InitLogger(); err != nil {
		log.Fatal("Failed to init logger:", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := config.ConnectDB(); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := config.MigrateAllModels(true); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// exported documents are archived to cloud storage when a bucket is set
	if os.Getenv("GCS_BUCKET") != "" {
		if _, err := libraries.NewClients(context.Background()); err != nil {
			logger.Warn("export archiving disabled", zap.Error(err))
		}
	}

	// Prometheus scrape endpoint runs on its own listener
	metricsPort := os.Getenv("METRICS_PORT")
	if metricsPort == "" {
		metricsPort = "9090"
	}
	go func() {
		if err := metrics.Serve(":" + metricsPort); err != nil {
			logger.Error("metrics listener stopped", zap.Error(err))
		}
	}()

	// Create and configure Fiber app
	app := api.NewServer()

	// Register routes
	routes.Register(app)

	// Start server
	go func() {
		if err := api.StartServer(app); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if clients := libraries.GetClients(); clients != nil {
		clients.Close()
	}
	if err := config.CloseDB(); err != nil {
		logger.Error("database close failed", zap.Error(err))
	}
}
