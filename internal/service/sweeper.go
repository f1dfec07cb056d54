package service

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper runs GamePlayService.Cleanup on a fixed interval until its
// context is cancelled. Clients can disconnect without an explicit
// leave, so abandoned games would otherwise accumulate forever.
type Sweeper struct {
	logger   *slog.Logger
	gamePlay GamePlayService
	interval time.Duration
}

func NewSweeper(logger *slog.Logger, gamePlay GamePlayService, interval time.Duration) *Sweeper {
	return &Sweeper{
		logger:   logger.With("component", "sweeper"),
		gamePlay: gamePlay,
		interval: interval,
	}
}

func (that *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	that.logger.Info("sweeper started", "interval", that.interval.String())

	for {
		select {
		case <-ctx.Done():
			that.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			that.gamePlay.Cleanup(ctx, time.Now().UTC())
		}
	}
}
