package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/tictactoe-live/internal/repository/storage"
)

func newStatisticsRepo(t *testing.T) (context.Context, StatisticsRepository) {
	t.Helper()

	ctx := context.Background()

	st, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	require.NoError(t, st.Init(ctx))

	return ctx, NewStatisticsRepository(st.Connection)
}

func TestStatisticsRepository_Record(t *testing.T) {
	t.Run("Win, loss and draw each bump their counter and the total", func(t *testing.T) {
		ctx, repo := newStatisticsRepo(t)

		// When: alice records one of each result
		require.NoError(t, repo.RecordWin(ctx, "alice"))
		require.NoError(t, repo.RecordLoss(ctx, "alice"))
		require.NoError(t, repo.RecordDraw(ctx, "alice"))

		// Then: every counter reflects exactly one game
		stats, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Wins)
		assert.Equal(t, 1, stats.Losses)
		assert.Equal(t, 1, stats.Draws)
		assert.Equal(t, 3, stats.TotalGames)
	})

	t.Run("Repeated wins accumulate", func(t *testing.T) {
		ctx, repo := newStatisticsRepo(t)

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.RecordWin(ctx, "bob"))
		}

		stats, err := repo.GetByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Wins)
		assert.Equal(t, 3, stats.TotalGames)
	})

	t.Run("Players are tracked independently", func(t *testing.T) {
		ctx, repo := newStatisticsRepo(t)

		require.NoError(t, repo.RecordWin(ctx, "alice"))
		require.NoError(t, repo.RecordLoss(ctx, "bob"))

		aliceStats, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		bobStats, err := repo.GetByUsername(ctx, "bob")
		require.NoError(t, err)

		assert.Equal(t, 1, aliceStats.Wins)
		assert.Equal(t, 0, aliceStats.Losses)
		assert.Equal(t, 0, bobStats.Wins)
		assert.Equal(t, 1, bobStats.Losses)
	})
}

func TestStatisticsRepository_GetByUsername_Unknown(t *testing.T) {
	ctx, repo := newStatisticsRepo(t)

	// When: fetching a player who never finished a game
	stats, err := repo.GetByUsername(ctx, "nobody")

	// Then: zeroed statistics come back instead of an error
	require.NoError(t, err)
	assert.Equal(t, "nobody", stats.Username)
	assert.Zero(t, stats.TotalGames)
}
