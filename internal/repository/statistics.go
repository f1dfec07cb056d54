package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playforge/tictactoe-live/internal/entity"
)

type StatisticsRepository interface {
	RecordWin(ctx context.Context, username string) error
	RecordLoss(ctx context.Context, username string) error
	RecordDraw(ctx context.Context, username string) error
	GetByUsername(ctx context.Context, username string) (*entity.PlayerStatistics, error)
}

type statisticsRepository struct {
	conn *sql.DB
}

func NewStatisticsRepository(conn *sql.DB) StatisticsRepository {
	return &statisticsRepository{
		conn: conn,
	}
}

func (that *statisticsRepository) RecordWin(ctx context.Context, username string) error {
	return that.record(ctx, username, "wins")
}

func (that *statisticsRepository) RecordLoss(ctx context.Context, username string) error {
	return that.record(ctx, username, "losses")
}

func (that *statisticsRepository) RecordDraw(ctx context.Context, username string) error {
	return that.record(ctx, username, "draws")
}

// record - upserts one finished-game result. The column name comes from
// the three callers above, never from user input.
func (that *statisticsRepository) record(ctx context.Context, username, column string) error {
	query := fmt.Sprintf(`INSERT INTO player_statistics (username, %[1]s, total_games)
		VALUES (?, 1, 1)
		ON CONFLICT(username) DO UPDATE SET %[1]s = %[1]s + 1, total_games = total_games + 1`, column)

	_, err := that.conn.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("can't record %s for %s: %w", column, username, err)
	}

	return nil
}

// GetByUsername - returns zeroed statistics for players who have not
// finished a game yet, so the caller never sees a not-found error.
func (that *statisticsRepository) GetByUsername(ctx context.Context, username string) (*entity.PlayerStatistics, error) {
	query := `SELECT wins, losses, draws, total_games FROM player_statistics WHERE username = ?`

	stats := &entity.PlayerStatistics{Username: username}

	row := that.conn.QueryRowContext(ctx, query, username)

	err := row.Scan(&stats.Wins, &stats.Losses, &stats.Draws, &stats.TotalGames)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}

	if err != nil {
		return nil, fmt.Errorf("can't get statistics for %s: %w", username, err)
	}

	return stats, nil
}
