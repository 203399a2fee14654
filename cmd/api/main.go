package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/wellness-service/internal/config"
	"github.com/Dan9191/wellness-service/internal/fixtures"
	"github.com/Dan9191/wellness-service/internal/handler"
	"github.com/Dan9191/wellness-service/internal/integrations/cbr"
	"github.com/Dan9191/wellness-service/internal/repository"
	"github.com/Dan9191/wellness-service/internal/service"
	"github.com/Dan9191/wellness-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Seed data
	seed, err := fixtures.NewFileProvider(cfg.FixturesPath)
	if err != nil {
		logger.Fatalf("Failed to load fixtures: %v", err)
	}

	// Snapshot store
	var store repository.ScenarioStore
	switch cfg.StoreBackend {
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatalf("Failed to ping redis: %v", err)
		}
		store = repository.NewRedisStore(rdb, cfg.HMACSecret, cfg.SnapshotTTL)
	default:
		store = repository.NewPostgresStore(db, cfg.HMACSecret)
	}
	logger.Infof("Scenario snapshots stored in %s", cfg.StoreBackend)

	// Initialize layers
	repo := repository.NewRepository(db)
	cbrClient := cbr.NewCBRClient(cfg.CBRURL, logger)
	scenarios := service.NewScenarioService(seed, store, cbrClient, logger)
	auth := service.NewAuthService(repo, logger, cfg.JWTSecret)
	h := handler.NewHandler(scenarios, auth, seed, cbrClient, logger)

	// Weekly digest
	scheduler := cron.New()
	digest := service.NewDigestJob(repo, store, email.NewSender(cfg, logger), logger)
	if _, err := digest.Schedule(scheduler, cfg.DigestSchedule); err != nil {
		logger.Fatalf("Failed to schedule digest: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg.JWTSecret),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
