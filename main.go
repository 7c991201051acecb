package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"questengine/api"
	"questengine/catalog"
	"questengine/completion"
	"questengine/engine"
	"questengine/internal/config"
	"questengine/policy"
	"questengine/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting session engine...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabasePath)
	log.Printf("Completion gateway: %s", cfg.CompletionURL)

	// Initialize local cache
	cache, err := store.NewSQLiteCache(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize local cache: %v", err)
	}
	defer cache.Close()

	// Initialize remote store; fall back to in-memory when unset
	var remote store.RemoteStore
	if cfg.RemoteStoreURL != "" {
		remote = store.NewRemoteClient(cfg.RemoteStoreURL, cfg.RemoteTimeout)
	} else {
		log.Printf("WARN: REMOTE_STORE_URL unset, using in-memory remote store")
		remote = store.NewMemoryRemote()
	}

	// Initialize completion service
	svc := completion.NewService(cfg.CompletionURL, cfg.CompletionAPIKey, cfg.CompletionModel, cfg.CompletionTimeout)

	// Initialize content policy
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize content policy: %v", err)
	}

	// Companion template catalog, with optional YAML overlay
	cat := catalog.Builtin()
	if cfg.CatalogPath != "" {
		if err := cat.LoadFile(cfg.CatalogPath); err != nil {
			log.Fatalf("Failed to load companion catalog: %v", err)
		}
	}

	// Initialize engine
	eng := engine.New(cache, remote, svc, policyEngine, engine.Options{
		OwnerID:           cfg.OwnerID,
		AutoSaveInterval:  cfg.AutoSaveInterval,
		IntroductionDwell: cfg.IntroductionDwell,
		RetentionAge:      cfg.RetentionAge,
		CleanupInterval:   cfg.CleanupInterval,
		Seed:              cfg.Seed,
		Catalog:           cat,
	})
	if err := eng.Start(ctx); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}
	defer eng.Stop()

	// Initialize handler
	h := api.NewHandler(eng)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down session engine...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}
}
