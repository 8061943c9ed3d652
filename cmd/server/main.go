/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the freelance income tracking server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load config file, then apply command-line flags
  2. Initialize SQLite store
  3. Seed settings from config defaults on first run
  4. Create API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Config file path (default: ~/.config/freelance/config.toml)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for in-memory database

ENVIRONMENT:
  FREELANCE_CONFIG  Config file path
  FREELANCE_DB      SQLite database path
  FREELANCE_PORT    HTTP server port

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/freelance.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - config/config.go: Config file and environment
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/freelance-engine/api"
	"github.com/warp/freelance-engine/config"
	"github.com/warp/freelance-engine/income"
	"github.com/warp/freelance-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "Config file path")
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", "", "SQLite database path")
	flag.Parse()

	// Config
	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}

	defaults, err := cfg.Defaults.Settings()
	if err != nil {
		log.Fatalf("Invalid default settings: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// First run: persist the configured defaults
	if _, ok, err := store.GetSettings(context.Background()); err != nil {
		log.Printf("Warning: Failed to read settings: %v", err)
	} else if !ok {
		if err := store.SaveSettings(context.Background(), defaults); err != nil {
			log.Printf("Warning: Failed to seed settings: %v", err)
		} else {
			log.Printf("Seeded settings: target %s, work days %s", defaults.MonthlyTarget.StringFixed(2), defaults.WorkDays)
		}
	}

	// Initialize handler
	handler := api.NewHandler(store, income.NewEngine(), defaults)

	// Create router
	router := api.NewRouter(handler, api.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		StaticDir:      "./web/dist",
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
		IdleTimeout:  cfg.Server.IdleTimeout(),
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Server.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.Server.Port)
		log.Printf("Database: %s", cfg.Storage.DBPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
