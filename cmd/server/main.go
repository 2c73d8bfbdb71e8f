package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"english-bridge-mailer/internal/config"
	"english-bridge-mailer/internal/database"
	"english-bridge-mailer/internal/handlers"
	"english-bridge-mailer/internal/mailer"
	"english-bridge-mailer/internal/metrics"
	"english-bridge-mailer/internal/repository"
	"english-bridge-mailer/internal/router"
	"english-bridge-mailer/internal/scheduler"
	"english-bridge-mailer/internal/template"
	"english-bridge-mailer/internal/transport"
)

func main() {
	// Configure logging
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting English Bridge mailer")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}

	// Initialize database
	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	store := repository.New(db)

	// Initialize metrics
	m := metrics.NewMetrics()

	// Initialize outbound transport. "none" is a valid state: the
	// process runs and every send fails with a distinct error until
	// credentials are configured.
	tr := transport.New(&cfg.Mail)
	if _, ok := tr.(transport.Unconfigured); ok {
		logrus.Warn("No mail provider configured; queued emails will fail until one is set")
	} else {
		logrus.Infof("Using %s mail transport", tr.Name())
	}

	// Initialize renderer and enqueue layer
	renderer := template.New(cfg.Server.BaseURL)
	ml := mailer.New(store, renderer, m)

	// Initialize scheduler
	sched := scheduler.NewScheduler(&cfg.Scheduler, store, tr, m)

	// Initialize HTTP handlers
	h := handlers.NewHandlers(store, ml, sched, tr, m)

	// Setup HTTP server
	r := router.SetupRouter(h)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start scheduler
	if err := sched.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop scheduler and wait for the in-flight cycle. A job cut off
	// mid-send stays pending and is retried at the next start.
	if err := sched.Stop(); err != nil {
		logrus.Errorf("Failed to stop scheduler: %v", err)
	}
	sched.Wait()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
}
