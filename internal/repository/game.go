package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/playforge/tictactoe-live/internal/apperror"
	"github.com/playforge/tictactoe-live/internal/entity"
)

// GameStore is the authoritative in-memory table of active games.
// Records are cloned on the way in and out, so callers always work on
// their own copy and commit changes through Put.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*entity.Game
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]*entity.Game),
	}
}

func (that *GameStore) Create(game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.ID]; ok {
		return fmt.Errorf("game %s already exists", game.ID)
	}

	that.games[game.ID] = game.Clone()

	return nil
}

func (that *GameStore) Get(id string) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", apperror.ErrGameNotFound, id)
	}

	return game.Clone(), nil
}

// List - all stored games, newest first, for the lobby view.
func (that *GameStore) List() []*entity.Game {
	that.mu.RLock()
	defer that.mu.RUnlock()

	games := make([]*entity.Game, 0, len(that.games))
	for _, game := range that.games {
		games = append(games, game.Clone())
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})

	return games
}

func (that *GameStore) Put(game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.ID]; !ok {
		return fmt.Errorf("%w: id %s", apperror.ErrGameNotFound, game.ID)
	}

	that.games[game.ID] = game.Clone()

	return nil
}

func (that *GameStore) Delete(id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return fmt.Errorf("%w: id %s", apperror.ErrGameNotFound, id)
	}

	delete(that.games, id)

	return nil
}

func (that *GameStore) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.games)
}
