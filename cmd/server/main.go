package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/internal/config"
	"github.com/sig-servicios/cotizador/internal/db"
	"github.com/sig-servicios/cotizador/internal/logging"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info", false).Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.JSON)

	// Migrations always run on the one-shot paths; seeding only on -seed-only.
	appCfg := cfg.App
	if *migrateOnlyFlag || *seedOnlyFlag {
		appCfg.Migrations = true
		appCfg.Seed = *seedOnlyFlag
	}
	dbConn, err := db.Open(cfg.Database, appCfg, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if *migrateOnlyFlag {
		logger.Info("Migrations completed successfully")
		return
	}
	if *seedOnlyFlag {
		logger.Info("Seeding completed successfully")
		return
	}

	var anonConn *gorm.DB
	if dsn := cfg.Database.NormalizedAnonDSN(); dsn != "" {
		if anonConn, err = db.Connect(cfg.Database, dsn, logger); err != nil {
			logger.Fatalf("Failed to connect anonymous database user: %v", err)
		}
	}

	app, err := NewApp(context.Background(), cfg, dbConn, anonConn, logger)
	if err != nil {
		logger.Fatalf("Failed to build application: %v", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s (dev=%v)", cfg.Server.Port, cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	app.Close()
	logger.Info("Server stopped gracefully")
}
