package entity

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/playforge/tictactoe-live/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"

	MarkX = "X"
	MarkO = "O"

	WinnerDraw      = "draw"
	WinnerAbandoned = "abandoned"

	EmptyCell = ""

	MaxPlayers = 2
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Player is one seat in a game. The mark is assigned by the server when
// the game starts and never changes afterwards.
type Player struct {
	Username string `json:"username"`
	Mark     string `json:"mark,omitempty"`
}

type Game struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Players    []*Player `json:"players"`
	Board      [9]string `json:"board"`
	Turn       string    `json:"player_turn,omitempty"`
	Winner     string    `json:"winner,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// NewGame - builds a waiting game with the creator as its only player.
// Marks are not assigned and there is no turn until a second player joins.
func NewGame(id, name, creatorUsername string) *Game {
	return &Game{
		ID:        id,
		Name:      name,
		Players:   []*Player{{Username: creatorUsername}},
		Board:     [9]string{},
		Status:    StatusWaiting,
		CreatedAt: time.Now().UTC(),
	}
}

// AddPlayer - seats a second player and starts the game. The creator
// keeps X, the joiner gets O, and the opening turn is a coin flip.
func (that *Game) AddPlayer(username string) error {
	if that.HasPlayer(username) {
		return fmt.Errorf("%w: %s", apperror.ErrAlreadyJoined, username)
	}

	if len(that.Players) >= MaxPlayers {
		return fmt.Errorf("%w: game id %s", apperror.ErrGameFull, that.ID)
	}

	that.Players = append(that.Players, &Player{Username: username})

	if len(that.Players) == MaxPlayers {
		that.Players[0].Mark = MarkX
		that.Players[1].Mark = MarkO
		that.Turn = RandomMark()
		that.Status = StatusPlaying
	}

	return nil
}

// RemovePlayer - drops a player from the roster. An in-progress game is
// forfeited to the remaining player.
func (that *Game) RemovePlayer(username string) error {
	idx := -1
	for i, player := range that.Players {
		if player.Username == username {
			idx = i
			break
		}
	}

	if idx < 0 {
		return fmt.Errorf("%w: %s", apperror.ErrNotAPlayer, username)
	}

	wasPlaying := that.IsPlaying()

	that.Players = append(that.Players[:idx], that.Players[idx+1:]...)

	if wasPlaying {
		that.finish(WinnerAbandoned)
	}

	return nil
}

// MakeTurn - applies one move for the player holding the given mark.
// Preconditions are checked before any mutation, so a rejected move
// leaves the game untouched.
func (that *Game) MakeTurn(mark string, cell int) error {
	if err := that.ConfirmPlayingState(); err != nil {
		return err
	}

	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	that.Board[cell] = mark
	that.updateGameState()

	return nil
}

// DetermineGameResult - reports "X" or "O" if a line is complete,
// WinnerDraw if the board filled with no winner, and "" while the game
// can still continue.
func (that *Game) DetermineGameResult() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range that.Board {
		if cell == EmptyCell {
			return ""
		}
	}

	return WinnerDraw
}

func (that *Game) updateGameState() {
	switch winner := that.DetermineGameResult(); winner {
	case MarkX, MarkO, WinnerDraw:
		that.finish(winner)
	default:
		that.Turn = toggleMark(that.Turn)
	}
}

func (that *Game) finish(winner string) {
	that.Winner = winner
	that.Status = StatusFinished
	that.Turn = ""
	that.FinishedAt = time.Now().UTC()
}

// PlayerMark - resolves the mark assigned to a username. The roster is
// the only source of truth; a mark claimed by a client is never trusted.
func (that *Game) PlayerMark(username string) (string, error) {
	for _, player := range that.Players {
		if player.Username == username {
			return player.Mark, nil
		}
	}

	return "", fmt.Errorf("%w: %s", apperror.ErrNotAPlayer, username)
}

func (that *Game) HasPlayer(username string) bool {
	for _, player := range that.Players {
		if player.Username == username {
			return true
		}
	}

	return false
}

// WinnerUsername - the username holding the winning mark, if any.
func (that *Game) WinnerUsername() (string, bool) {
	if that.Winner != MarkX && that.Winner != MarkO {
		return "", false
	}

	for _, player := range that.Players {
		if player.Mark == that.Winner {
			return player.Username, true
		}
	}

	return "", false
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) ConfirmPlayingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsPlaying():
		return nil
	default:
		return fmt.Errorf("%w: %s", apperror.ErrUnknownGameStatus, that.Status)
	}
}

// Clone - deep copy, so published snapshots and store reads can't be
// mutated behind the store's back.
func (that *Game) Clone() *Game {
	clone := *that

	clone.Players = make([]*Player, len(that.Players))
	for i, player := range that.Players {
		playerCopy := *player
		clone.Players[i] = &playerCopy
	}

	return &clone
}

func RandomMark() string {
	if rand.Intn(2) == 0 { //nolint: gosec // a coin flip, not a secret
		return MarkX
	}
	return MarkO
}

func toggleMark(mark string) string {
	if mark == MarkX {
		return MarkO
	}
	return MarkX
}
