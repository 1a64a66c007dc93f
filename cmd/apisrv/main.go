package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gbergara/trip-planner/pkg/airports"
	"github.com/gbergara/trip-planner/pkg/config"
	"github.com/gbergara/trip-planner/pkg/db"
	"github.com/gbergara/trip-planner/pkg/jobs"
	"github.com/gbergara/trip-planner/pkg/log"
	"github.com/gbergara/trip-planner/pkg/webserver"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := log.Init(&cfg.Logging); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	logger.Info("Starting Trip Planner API Server")

	// Initialize database
	logger.Info("Connecting to database...")
	database, err := db.New(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.WithError(err).Error("Failed to close database connection")
		}
	}()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := database.Migrate(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Seed the login allowlist from configuration
	if len(cfg.Security.AllowedAccounts) > 0 {
		logger.Info("Seeding allowed accounts...")
		if err := database.SeedAllowedAccounts(cfg.Security.AllowedAccounts); err != nil {
			logger.WithError(err).Fatal("Failed to seed allowed accounts")
		}
	}

	// Load the airport dataset. Failure is not fatal: search comes up
	// empty until the scheduled refresh succeeds.
	logger.Info("Loading airport dataset...")
	airportSvc := airports.New(&cfg.Redis)
	defer airportSvc.Close()

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := airportSvc.Load(loadCtx); err != nil {
		logger.WithError(err).Error("Failed to load airport dataset")
	}
	loadCancel()

	// Start background jobs
	scheduler := jobs.New(airportSvc)
	if err := scheduler.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start background jobs")
	}

	// Initialize web server
	logger.Info("Initializing web server...")
	server, err := webserver.New(cfg, database, logger, airportSvc)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize web server")
	}

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithField("address", cfg.Server.GetServerAddr()).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.GracefulStop)*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	} else {
		logger.Info("Web server exited gracefully")
	}

	scheduler.Stop()

	logger.Info("Application exited gracefully")
}
