package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/tictactoe-live/internal/apperror"
	"github.com/playforge/tictactoe-live/internal/entity"
)

func TestGameStore_CreateAndGet(t *testing.T) {
	t.Run("Stores and retrieves a game", func(t *testing.T) {
		// Given: an empty store and a new game
		store := NewGameStore()
		game := entity.NewGame("g1", "friday night", "alice")

		// When: the game is created and fetched back
		require.NoError(t, store.Create(game))
		got, err := store.Get("g1")

		// Then: the stored copy matches
		require.NoError(t, err)
		assert.Equal(t, game.ID, got.ID)
		assert.Equal(t, game.Name, got.Name)
		assert.Equal(t, game.Status, got.Status)
	})

	t.Run("Rejects a duplicate ID", func(t *testing.T) {
		store := NewGameStore()
		game := entity.NewGame("g1", "friday night", "alice")
		require.NoError(t, store.Create(game))

		err := store.Create(game)

		assert.Error(t, err)
	})

	t.Run("Get returns ErrGameNotFound for an unknown ID", func(t *testing.T) {
		store := NewGameStore()

		_, err := store.Get("missing")

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Returned games are isolated copies", func(t *testing.T) {
		// Given: a stored game
		store := NewGameStore()
		require.NoError(t, store.Create(entity.NewGame("g1", "friday night", "alice")))

		// When: a caller mutates the copy it got back
		got, err := store.Get("g1")
		require.NoError(t, err)
		got.Board[0] = entity.MarkX
		got.Players[0].Username = "mallory"

		// Then: the stored record is unaffected
		fresh, err := store.Get("g1")
		require.NoError(t, err)
		assert.Equal(t, entity.EmptyCell, fresh.Board[0])
		assert.Equal(t, "alice", fresh.Players[0].Username)
	})
}

func TestGameStore_Put(t *testing.T) {
	t.Run("Replaces the stored record", func(t *testing.T) {
		// Given: a stored waiting game
		store := NewGameStore()
		game := entity.NewGame("g1", "friday night", "alice")
		require.NoError(t, store.Create(game))

		// When: an updated copy is put back
		game.Status = entity.StatusPlaying
		require.NoError(t, store.Put(game))

		// Then: the stored record has the new status
		got, err := store.Get("g1")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPlaying, got.Status)
	})

	t.Run("Fails for an unknown ID", func(t *testing.T) {
		store := NewGameStore()

		err := store.Put(entity.NewGame("ghost", "nope", "alice"))

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameStore_Delete(t *testing.T) {
	t.Run("Removes the record", func(t *testing.T) {
		store := NewGameStore()
		require.NoError(t, store.Create(entity.NewGame("g1", "friday night", "alice")))

		require.NoError(t, store.Delete("g1"))

		_, err := store.Get("g1")
		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Fails for an unknown ID", func(t *testing.T) {
		store := NewGameStore()

		err := store.Delete("missing")

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameStore_List(t *testing.T) {
	// Given: three games created in order
	store := NewGameStore()
	for _, id := range []string{"g1", "g2", "g3"} {
		game := entity.NewGame(id, "game "+id, "alice")
		require.NoError(t, store.Create(game))
	}

	// When: listing
	games := store.List()

	// Then: all three are present
	require.Len(t, games, 3)

	ids := make([]string, 0, len(games))
	for _, game := range games {
		ids = append(ids, game.ID)
	}
	assert.ElementsMatch(t, []string{"g1", "g2", "g3"}, ids)
}

func TestGameStore_ConcurrentAccess(t *testing.T) {
	// Given: a store shared by many goroutines
	store := NewGameStore()
	require.NoError(t, store.Create(entity.NewGame("g1", "shared", "alice")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			game, err := store.Get("g1")
			require.NoError(t, err)
			_ = store.Put(game)
		}()
		go func() {
			defer wg.Done()
			_ = store.List()
		}()
	}
	wg.Wait()

	// Then: the record survived the traffic
	assert.Equal(t, 1, store.Len())
}
