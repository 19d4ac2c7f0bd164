package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"boostapi/internal/config"
	"boostapi/internal/db"
	"boostapi/internal/db/migrations"
	"boostapi/internal/metrics"
	"boostapi/internal/repository"
	"boostapi/internal/routes"
	"boostapi/internal/services"
)

// @title Boost Engine API
// @version 1.0
// @description Boost campaign pricing, moderation and priority resolution API.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	if err := db.CreateDatabaseIfNotExists(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to ensure database exists: %v", err)
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := migrations.RunMigrations(database.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	metrics.Register()

	s3Config, err := config.NewS3Config()
	if err != nil {
		log.Fatalf("Failed to configure S3: %v", err)
	}

	router := routes.SetupRoutes(database.DB, cfg, s3Config)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Background sweep keeps projections honest even when no request
	// traffic triggers the opportunistic reconciliation.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runSweepLoop(sweepCtx, database, cfg.SweepInterval)

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func runSweepLoop(ctx context.Context, database *db.Database, interval time.Duration) {
	reconciler := services.NewReconciler(
		repository.NewBoostRequestRepository(database.DB),
		repository.NewProductRepository(database.DB),
		repository.NewUserRepository(database.DB),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := reconciler.Sweep(ctx, time.Now().UTC())
			if err != nil {
				log.Printf("Background sweep failed: %v", err)
				continue
			}
			if expired > 0 {
				log.Printf("Background sweep expired %d boost(s)", expired)
			}
		}
	}
}
