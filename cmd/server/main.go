// Package main is the entry point for the camping heater rental server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/camping-heater-rental/backend/internal/api"
	"github.com/camping-heater-rental/backend/internal/config"
	"github.com/camping-heater-rental/backend/internal/notify"
	"github.com/camping-heater-rental/backend/internal/reservation"
	"github.com/camping-heater-rental/backend/internal/storage"
	"github.com/camping-heater-rental/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	addr := flag.String("addr", ":8080", "HTTP server address")
	dataDir := flag.String("data", "./data", "Data directory for the SQLite database")
	staticDir := flag.String("static", "./static", "Directory for static frontend files")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	// Health check mode for container HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(*addr); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	// .env is optional; real deployments set variables directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Printf("Starting camping heater rental server (version: %s, backend: %s)...", version, cfg.StorageBackend)

	store, err := openStore(cfg, *dataDir)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer store.Close()

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Reservation engine over the configured store
	service := reservation.NewService(store)

	// Email notifications are optional plumbing
	var notifier notify.Notifier = notify.Nop{}
	var emailClient *notify.Client
	if cfg.EmailEnabled() {
		emailClient = notify.NewClient(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AdminEmail)
		notifier = emailClient
		log.Printf("Email notifications enabled (admin: %s)", cfg.AdminEmail)
	} else {
		log.Println("Email notifications disabled: RESEND_API_KEY or ADMIN_EMAIL not configured")
	}

	// Daily digest of rentals starting today
	digest := notify.NewDigestScheduler(service, emailClient, hub, cfg.DigestSchedule)
	if err := digest.Start(); err != nil {
		log.Printf("Warning: Failed to start digest scheduler: %v", err)
	}

	router := api.NewRouter(store, service, notifier, hub, *staticDir)

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	digest.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// openStore constructs the storage backend selected by configuration.
func openStore(cfg config.Config, dataDir string) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewPostgresStore(ctx, cfg.DatabaseURL)

	case config.BackendMemory:
		return storage.NewMemoryStore(), nil

	default:
		db, err := storage.NewDB(dataDir + "/heater-rental.db")
		if err != nil {
			return nil, err
		}
		if err := storage.RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		log.Println("Database migrations complete")
		return storage.NewSQLiteStore(db), nil
	}
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
