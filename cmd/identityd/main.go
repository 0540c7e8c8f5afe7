package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mkelsey/devportal/internal/api"
	"github.com/mkelsey/devportal/internal/dependencies/clock"
	"github.com/mkelsey/devportal/internal/services/account"
	"github.com/mkelsey/devportal/internal/storage"
	"github.com/mkelsey/devportal/internal/storage/memory"
	redisstorage "github.com/mkelsey/devportal/internal/storage/redis"
)

const storageTypeRedis = "redis"

type config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`

	SigningKey string        `env:"SIGNING_KEY"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// SeedPassword, when set, provisions the demo accounts at startup
	SeedPassword string `env:"SEED_PASSWORD"`
}

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Select the account storage backend
	var store storage.Storage
	if cfg.StorageType == storageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL

		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			logger.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		store = memory.New()
	}

	accounts := account.New(store, clock.New(), account.Config{
		SigningKey: cfg.SigningKey,
		TokenTTL:   cfg.TokenTTL,
	}, logger)

	if cfg.SeedPassword != "" {
		if err := accounts.SeedDemoAccounts(context.Background(), cfg.SeedPassword); err != nil {
			logger.Error("failed to seed demo accounts", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("demo accounts seeded")
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Accounts: accounts,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = fmt.Sprintf(":%d", cfg.Port)
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
