package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/playforge/tictactoe-live/internal/apperror"
	"github.com/playforge/tictactoe-live/internal/service"
)

type handlers struct {
	logger   *slog.Logger
	gamePlay service.GamePlayService
}

func newHandlers(logger *slog.Logger, gamePlay service.GamePlayService) *handlers {
	return &handlers{
		logger:   logger.With("component", "rest"),
		gamePlay: gamePlay,
	}
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.gamePlay.CreateGame(r.Context(), req.Name, req.Username)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, gameResponse{Game: game})
}

func (that *handlers) listGames(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, gameListResponse{Games: that.gamePlay.ListGames()})
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gamePlay.GetGame(r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) joinGame(w http.ResponseWriter, r *http.Request) {
	var req joinGameRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.gamePlay.JoinGame(r.Context(), r.PathValue("id"), req.Username)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var req makeMoveRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.gamePlay.MakeMove(r.Context(), r.PathValue("id"), req.Cell, req.Username)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) leaveGame(w http.ResponseWriter, r *http.Request) {
	var req leaveGameRequest
	if !that.decode(w, r, &req) {
		return
	}

	if err := that.gamePlay.LeaveGame(r.Context(), r.PathValue("id"), req.Username); err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (that *handlers) getStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := that.gamePlay.GetStatistics(r.Context(), r.PathValue("username"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (that *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}

	return true
}

// writeError - maps the service error taxonomy onto HTTP status codes.
func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrAlreadyJoined):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrGameFull),
		errors.Is(err, apperror.ErrNotAPlayer),
		errors.Is(err, apperror.ErrGameNotStarted),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrInvalidCell):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrEmptyUsername),
		errors.Is(err, apperror.ErrEmptyGameName):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
