package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unolabs/uno-server-go/internal/config"
	"github.com/unolabs/uno-server-go/internal/game"
	"github.com/unolabs/uno-server-go/internal/repository"
	"github.com/unolabs/uno-server-go/internal/room"
	"github.com/unolabs/uno-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

// No ReadTimeout or WriteTimeout: websocket connections are long-lived.
const readHeaderTimeout = 5 * time.Second

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting uno server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Optional match-result ledger. An empty DSN runs without one.
	var results server.ResultRecorder
	if cfg.Database.DSN != "" {
		store, err := repository.NewResultStore(ctx, cfg.Database.DSN, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer store.Close()
		results = store
	} else {
		logger.Info("no database configured; match results will not be recorded")
	}

	rooms := room.NewManager(logger,
		game.WithSettings(game.Settings{
			GameTimerEnabled: cfg.Game.GameTimerEnabled,
			GameTimeSeconds:  cfg.Game.GameTimeSeconds,
			TurnTimerEnabled: cfg.Game.TurnTimerEnabled,
			TurnTimeSeconds:  cfg.Game.TurnTimeSeconds,
		}),
		game.WithBotDelay(cfg.Game.BotDelay),
	)
	logger.Info("room manager initialized")

	hub := server.NewHub(rooms, results, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           hub.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Info("listening", zap.String("address", cfg.Server.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(serveErr))
		}
	}()

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("uno server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
