package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/playforge/tictactoe-live/internal/config"
	"github.com/playforge/tictactoe-live/internal/realtime"
	"github.com/playforge/tictactoe-live/internal/repository"
	"github.com/playforge/tictactoe-live/internal/repository/storage"
	"github.com/playforge/tictactoe-live/internal/service"
	"github.com/playforge/tictactoe-live/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	bus, err := newBus(ctx, conf)
	if err != nil {
		return fmt.Errorf("could not create realtime bus: %w", err)
	}

	defer func() {
		if err = bus.Close(); err != nil {
			log.Error("could not close realtime bus", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	statsRepo := repository.NewStatisticsRepository(sqliteStorage.Connection)
	gameStore := repository.NewGameStore()

	policy := service.CleanupPolicy{
		WaitingTimeout:    conf.Cleanup.GetWaitingTimeout(),
		FinishedRetention: conf.Cleanup.GetFinishedRetention(),
		MaxAge:            conf.Cleanup.GetMaxAge(),
	}
	gamePlay := service.NewGamePlayService(logger, gameStore, statsRepo, bus, policy)

	sweeper := service.NewSweeper(logger, gamePlay, conf.Cleanup.GetSweepInterval())
	go sweeper.Run(ctx)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, gamePlay); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func newBus(ctx context.Context, conf *config.Config) (realtime.Bus, error) {
	switch conf.Realtime.Driver {
	case "redis":
		bus, err := realtime.NewRedisBus(ctx, conf.Realtime.Redis.GetRedisAddr())
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis: %w", err)
		}
		return bus, nil
	case "nats":
		bus, err := realtime.NewNATSBus(conf.Realtime.NATS.URL)
		if err != nil {
			return nil, fmt.Errorf("could not connect to nats: %w", err)
		}
		return bus, nil
	case "memory":
		return realtime.NewMemoryBus(), nil
	default:
		return nil, fmt.Errorf("unknown realtime driver: %s", conf.Realtime.Driver)
	}
}
