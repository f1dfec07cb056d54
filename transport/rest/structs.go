package rest

import "github.com/playforge/tictactoe-live/internal/entity"

type createGameRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

type joinGameRequest struct {
	Username string `json:"username"`
}

type makeMoveRequest struct {
	Username string `json:"username"`
	Cell     int    `json:"cell"`
}

type leaveGameRequest struct {
	Username string `json:"username"`
}

type gameResponse struct {
	Game *entity.Game `json:"game"`
}

type gameListResponse struct {
	Games []*entity.Game `json:"games"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}
