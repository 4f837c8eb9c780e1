package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sp500watch/config"
	"sp500watch/internal/database"
	"sp500watch/internal/handlers"
	"sp500watch/internal/middleware"
	"sp500watch/internal/repository"
	"sp500watch/internal/scheduler"
	"sp500watch/internal/services"
	"sp500watch/internal/wikipedia"
	"sp500watch/internal/yahoo"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context for initialization and background jobs
	ctx := context.Background()

	// Initialize database connection
	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Initialize external clients
	var wikiClient *wikipedia.Client
	if cfg.SourceURL != "" {
		wikiClient = wikipedia.NewClientWithURLs(cfg.SourceURL, cfg.SourceURL)
	} else {
		wikiClient = wikipedia.NewClient()
	}
	yahooClient := yahoo.NewClient()

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db.Pool)
	financialRepo := repository.NewFinancialRepository(db.Pool)
	changeLogRepo := repository.NewChangeLogRepository(db.Pool)

	// Initialize services
	rosterSvc := services.NewRosterService(companyRepo, changeLogRepo)
	enrichmentSvc := services.NewEnrichmentService(yahooClient, financialRepo)

	// Initialize handlers
	companyHandler := handlers.NewCompanyHandler(rosterSvc)
	financialHandler := handlers.NewFinancialHandler(rosterSvc, enrichmentSvc)
	refreshHandler := handlers.NewRefreshHandler(wikiClient, rosterSvc)

	// Setup Gin router
	router := gin.Default()

	// Apply global middleware
	router.Use(middleware.CORS())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Company routes
	router.GET("/companies", companyHandler.List)
	router.GET("/companies/:symbol", companyHandler.Get)
	router.GET("/changes", companyHandler.Changes)
	router.POST("/refresh", refreshHandler.Refresh)

	// Financials routes
	router.GET("/financials", financialHandler.List)
	router.GET("/financials/:symbol", financialHandler.Get)
	router.POST("/financials/refresh", financialHandler.Refresh)

	// Start scheduled jobs
	sched := scheduler.New(ctx, wikiClient, rosterSvc, enrichmentSvc)
	if err := sched.Register(cfg.RefreshCron, cfg.FinancialsCron); err != nil {
		log.Fatalf("Failed to register scheduled jobs: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.RunOnStart {
		go sched.RunRefreshNow()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	fmt.Println("Server exited")
}
