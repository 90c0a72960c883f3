package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VladimirNTS/Rockauto-Rest-API/internal/api"
	"github.com/VladimirNTS/Rockauto-Rest-API/internal/config"
	"github.com/VladimirNTS/Rockauto-Rest-API/internal/currency"
	"github.com/VladimirNTS/Rockauto-Rest-API/internal/database"
	"github.com/VladimirNTS/Rockauto-Rest-API/internal/events"
	"github.com/VladimirNTS/Rockauto-Rest-API/internal/rockauto"
	"github.com/VladimirNTS/Rockauto-Rest-API/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting rockauto rest api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	client, err := rockauto.New(rockauto.Options{
		BaseURL:       cfg.RockAuto.BaseURL,
		Timeout:       cfg.RockAuto.Timeout,
		MobileProfile: cfg.RockAuto.MobileProfile,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to build rockauto client", "error", err)
		os.Exit(1)
	}

	searcher := rockauto.NewCachedSearcher(client, rockauto.CacheConfig{
		Enabled:    cfg.Cache.Enabled,
		ResultTTL:  time.Duration(cfg.Cache.ResultTTLHours) * time.Hour,
		MaxResults: cfg.Cache.MaxResults,
	}, logger)

	converter := currency.New(cfg.Currency.APIURL, cfg.Currency.Target, cfg.Currency.Timeout, logger)

	var recorder api.SearchRecorder
	if cfg.Database.Enabled {
		db, err := database.New(ctx, database.Config{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			Database:    cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			MaxConns:    10,
			MinConns:    2,
			MaxConnLife: time.Hour,
			MaxConnIdle: 30 * time.Minute,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		recorder = db
	}

	var publisher api.EventPublisher
	if cfg.Events.Enabled {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Events.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		publisher = events.NewPublisher(redisClient, cfg.Events.Stream, logger)
	}

	handlers := api.NewHandlers(searcher, client, converter, recorder, publisher, logger)
	router := api.NewRouter(handlers, cfg.Auth.APIKeys)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			cancel()
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
