// Package entrypoint wires the application together and runs the server.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookdeck/bookdeck/internal/auth"
	"github.com/bookdeck/bookdeck/internal/config"
	"github.com/bookdeck/bookdeck/internal/database"
	"github.com/bookdeck/bookdeck/internal/database/books"
	"github.com/bookdeck/bookdeck/internal/database/memos"
	http_controllers "github.com/bookdeck/bookdeck/internal/http"
	"github.com/bookdeck/bookdeck/internal/metadata"
	"github.com/bookdeck/bookdeck/internal/scheduler"
	"github.com/bookdeck/bookdeck/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout, calling onShutdown first.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown requested, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run builds every component from configuration and serves until shutdown.
func Run(cfg *config.Config) {
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	bookRepo := books.NewRepository(db.DB)
	memoRepo := memos.NewRepository(db.DB)
	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB handle: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	csrfSecret := resolveCSRFSecret(cfg.Auth.CSRFSecret)

	metaClient := metadata.NewClient(cfg.Metadata.BaseURL)

	// Background queue and scheduler for metadata refresh
	var taskClient *tasks.Client
	var refreshScheduler *scheduler.MetadataRefreshScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		taskClient.Register(tasks.NewRefreshBookQueue(metaClient, bookRepo))

		taskCtx, taskCancel := context.WithCancel(context.Background())
		defer taskCancel()
		go taskClient.Start(taskCtx)

		refreshScheduler = scheduler.NewMetadataRefreshScheduler(bookRepo, taskClient, cfg.Refresh)
		if err := refreshScheduler.Start(); err != nil {
			log.Fatalf("Failed to start metadata refresh scheduler: %v", err)
		}
	}

	authMiddleware := auth.NewMiddleware(authService, sessionManager)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:          http_controllers.NewBooksController(bookRepo, metaClient),
		Memos:          http_controllers.NewMemosController(memoRepo),
		Auth:           auth.NewController(authService, sessionManager),
		Health:         http_controllers.NewHealthController(db),
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		CORSOrigin:     cfg.HTTP.CORSOrigin,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if refreshScheduler != nil {
			refreshScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskClient.Close()
		}
		if err := db.Close(); err != nil {
			log.Printf("Closing database failed: %v", err)
		}
	})
}

// resolveCSRFSecret decodes the configured hex secret or, when none is set,
// generates an ephemeral one (sessions then reset on restart, which is fine
// for local development but should be configured in production).
func resolveCSRFSecret(configured string) []byte {
	if configured != "" {
		secret, err := hex.DecodeString(configured)
		if err != nil || len(secret) != 32 {
			log.Fatalf("CSRF_SECRET must be 64 hex characters")
		}
		return secret
	}

	log.Printf("WARNING: CSRF_SECRET is not set, generating an ephemeral secret")
	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}
	secret, _ := hex.DecodeString(generated)
	return secret
}
