package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/playforge/tictactoe-live/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Start - serves the game API until the context is cancelled.
func Start(ctx context.Context, logger *slog.Logger, port string, gamePlay service.GamePlayService) error {
	h := newHandlers(logger, gamePlay)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", h.ping)
	mux.HandleFunc("POST /api/games", h.createGame)
	mux.HandleFunc("GET /api/games", h.listGames)
	mux.HandleFunc("GET /api/games/{id}", h.getGame)
	mux.HandleFunc("POST /api/games/{id}/join", h.joinGame)
	mux.HandleFunc("POST /api/games/{id}/move", h.makeMove)
	mux.HandleFunc("POST /api/games/{id}/leave", h.leaveGame)
	mux.HandleFunc("GET /api/players/{username}/statistics", h.getStatistics)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
