/*
Package main is the entry point for the ShutterChat messaging server.

It is responsible for loading configuration, initializing the global logging
system, wiring the messaging core (connection registry, room store, delivery
queue, router, and dashboard broadcaster), setting up the HTTP server, and
gracefully handling operating system interrupt signals (SIGINT, SIGTERM)
to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shutterchat/internal/app/chat"
	"shutterchat/internal/app/db"
	"shutterchat/internal/app/storage"
	"shutterchat/internal/configs"
	"shutterchat/internal/handler"
	"shutterchat/internal/pkg/auth/jwt"
	"shutterchat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("flap_threshold", cfg.FlapThreshold).
		Dur("dashboard_interval", cfg.DashboardInterval).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional durable delivery journal. Without a database the queue runs
	// purely in memory, which loses pending deliveries on restart.
	var journal chat.Journal
	if cfg.DatabaseDSN != "" {
		pool, err := db.NewPool(cfg.DatabaseDSN)
		if err != nil {
			logx.Fatal(err, "Failed to connect to database")
		}
		defer pool.Close()
		journal = db.NewDeliveryJournal(pool)
		logx.Info("Delivery journal enabled.")
	} else {
		logx.Warn("DATABASE_URL not set; delivery queue is in-memory only.")
	}

	// Optional S3-compatible photo storage for attachment presigning.
	var photoStorage storage.PhotoStorage
	if cfg.S3Enabled() {
		photoStorage, err = storage.NewPhotoStorage(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize photo storage")
		}
		logx.Info("Photo storage enabled.", "bucket", cfg.S3BucketName)
	} else {
		logx.Warn("S3 not configured; attachment presign endpoints disabled.")
	}

	// Wire the messaging core.
	registry := chat.NewRegistry(jwt.NewValidator(cfg.JWTSecret), cfg.FlapThreshold)
	rooms := chat.NewRoomStore()
	queue := chat.NewDeliveryQueue(journal)
	router := chat.NewRouter(registry, rooms, queue)

	broadcaster := chat.NewBroadcaster(registry, cfg.DashboardInterval)
	registry.SetAlertSink(broadcaster)
	broadcaster.Start()

	sysMetrics := chat.NewSystemMetricsSource(broadcaster, cfg.SystemMetricsInterval)
	sysMetrics.Start()

	deps := &handler.AppDeps{
		Registry:    registry,
		Rooms:       rooms,
		Queue:       queue,
		Router:      router,
		Broadcaster: broadcaster,
		Config:      cfg,
		Storage:     photoStorage,
	}

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("ShutterChat Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	sysMetrics.Shutdown()
	broadcaster.Shutdown()

	logx.Info("Server gracefully stopped.")
}
