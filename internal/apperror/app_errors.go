package apperror

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFull          = errors.New("game is already full")
	ErrAlreadyJoined     = errors.New("player already joined this game")
	ErrNotAPlayer        = errors.New("player is not part of this game")
	ErrGameNotStarted    = errors.New("game is not started")
	ErrGameFinished      = errors.New("game is already finished")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrEmptyUsername     = errors.New("username must not be empty")
	ErrEmptyGameName     = errors.New("game name must not be empty")
	ErrUnknownGameStatus = errors.New("unknown game status")
)
