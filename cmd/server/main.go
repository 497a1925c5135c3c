package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/tictacgame-go/internal/api"
	"github.com/mcoot/tictacgame-go/internal/config"
	"github.com/mcoot/tictacgame-go/internal/factory"
	"github.com/mcoot/tictacgame-go/internal/server"
	redisstorage "github.com/mcoot/tictacgame-go/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Build factory config
	factoryCfg := factory.Config{
		StorageType: cfg.StorageType,
		DataDir:     cfg.DataDir,
		Logger:      logger,
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create application factory (loads persisted accounts)
	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Game protocol server; the dispatcher sends through it
	gameCfg := server.DefaultConfig()
	gameCfg.Host = cfg.GameHost
	gameCfg.Port = cfg.GamePort
	gameCfg.IdleTimeout = cfg.IdleTimeout
	gameServer := server.New(gameCfg, logger)

	dispatcher := server.NewDispatcher(
		app.Accounts, app.Matchmaker, app.Registry, app.Replays, gameServer, logger)

	// Admin HTTP server
	adminRouter := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Accounts:   app.Accounts,
		Registry:   app.Registry,
		Matchmaker: app.Matchmaker,
		Replays:    app.Replays,
	})
	adminCfg := api.DefaultServerConfig()
	adminCfg.Host = cfg.AdminHost
	adminCfg.Port = cfg.AdminPort
	adminServer := api.NewServer(adminRouter, adminCfg, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 2)
	go func() {
		errCh <- gameServer.Start(ctx, dispatcher)
	}()
	go func() {
		errCh <- adminServer.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := gameServer.Shutdown(context.Background()); err != nil {
			logger.Error("game server shutdown error", slog.String("error", err.Error()))
		}
		if err := adminServer.Shutdown(context.Background()); err != nil {
			logger.Error("admin server shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}
