package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playforge/tictactoe-live/internal/apperror"
	"github.com/playforge/tictactoe-live/internal/entity"
	"github.com/playforge/tictactoe-live/internal/realtime"
)

// publishTimeout bounds every bus publish; a stale notification is
// better than a hung request.
const publishTimeout = 3 * time.Second

type GamePlayService interface {
	CreateGame(ctx context.Context, name, username string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, username string) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID string, cell int, username string) (*entity.Game, error)
	LeaveGame(ctx context.Context, gameID, username string) error

	ListGames() []*entity.Game
	GetGame(id string) (*entity.Game, error)
	GetStatistics(ctx context.Context, username string) (*entity.PlayerStatistics, error)

	Cleanup(ctx context.Context, now time.Time) int
}

type gameStore interface {
	Create(game *entity.Game) error
	Get(id string) (*entity.Game, error)
	List() []*entity.Game
	Put(game *entity.Game) error
	Delete(id string) error
}

type statisticsRepo interface {
	RecordWin(ctx context.Context, username string) error
	RecordLoss(ctx context.Context, username string) error
	RecordDraw(ctx context.Context, username string) error
	GetByUsername(ctx context.Context, username string) (*entity.PlayerStatistics, error)
}

// CleanupPolicy holds the staleness thresholds for the periodic sweep.
type CleanupPolicy struct {
	WaitingTimeout    time.Duration
	FinishedRetention time.Duration
	MaxAge            time.Duration
}

// IsStale - true when a game should be removed by the sweep.
func (that CleanupPolicy) IsStale(game *entity.Game, now time.Time) bool {
	switch {
	case len(game.Players) == 0:
		return true
	case game.IsWaiting() && now.Sub(game.CreatedAt) > that.WaitingTimeout:
		return true
	case game.IsFinished() && now.Sub(game.FinishedAt) > that.FinishedRetention:
		return true
	case now.Sub(game.CreatedAt) > that.MaxAge:
		return true
	default:
		return false
	}
}

type gamePlayService struct {
	logger *slog.Logger

	games  gameStore
	stats  statisticsRepo
	bus    realtime.Bus
	policy CleanupPolicy

	locks sync.Map // game ID -> *sync.Mutex
}

func NewGamePlayService(logger *slog.Logger, games gameStore, stats statisticsRepo, bus realtime.Bus, policy CleanupPolicy) GamePlayService {
	return &gamePlayService{
		logger: logger.With("component", "gameplay"),
		games:  games,
		stats:  stats,
		bus:    bus,
		policy: policy,
	}
}

func (that *gamePlayService) CreateGame(ctx context.Context, name, username string) (*entity.Game, error) {
	if name == "" {
		return nil, apperror.ErrEmptyGameName
	}

	if username == "" {
		return nil, apperror.ErrEmptyUsername
	}

	game := entity.NewGame(uuid.NewString(), name, username)

	if err := that.games.Create(game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.publish(ctx, realtime.LobbyChannel, realtime.Message{
		Event: realtime.EventGameCreated,
		Game:  game,
	})

	return game, nil
}

func (that *gamePlayService) JoinGame(ctx context.Context, gameID, username string) (*entity.Game, error) {
	if username == "" {
		return nil, apperror.ErrEmptyUsername
	}

	unlock := that.lockGame(gameID)

	game, err := that.games.Get(gameID)
	if err != nil {
		unlock()
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err = game.AddPlayer(username); err != nil {
		unlock()
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	if err = that.games.Put(game); err != nil {
		unlock()
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	unlock()

	that.publish(ctx, realtime.LobbyChannel, realtime.Message{
		Event: realtime.EventGameUpdated,
		Game:  game,
	})
	that.publish(ctx, realtime.GameChannel(game.ID), realtime.Message{
		Event: realtime.EventPlayerJoined,
		Game:  game,
		Mover: username,
	})

	return game, nil
}

func (that *gamePlayService) MakeMove(ctx context.Context, gameID string, cell int, username string) (*entity.Game, error) {
	unlock := that.lockGame(gameID)

	game, err := that.games.Get(gameID)
	if err != nil {
		unlock()
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	mark, err := game.PlayerMark(username)
	if err != nil {
		unlock()
		return nil, fmt.Errorf("failed to resolve mark: %w", err)
	}

	if err = game.MakeTurn(mark, cell); err != nil {
		unlock()
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.games.Put(game); err != nil {
		unlock()
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	unlock()

	that.publish(ctx, realtime.GameChannel(game.ID), realtime.Message{
		Event: realtime.EventPlayerMoved,
		Game:  game,
		Mover: username,
		Cell:  cell,
	})
	that.publish(ctx, realtime.LobbyChannel, realtime.Message{
		Event: realtime.EventGameUpdated,
		Game:  game,
	})

	if game.IsFinished() {
		that.publish(ctx, realtime.GameChannel(game.ID), realtime.Message{
			Event:  realtime.EventGameEnded,
			Game:   game,
			Winner: game.Winner,
		})
		that.recordOutcome(ctx, game)
	}

	return game, nil
}

func (that *gamePlayService) LeaveGame(ctx context.Context, gameID, username string) error {
	unlock := that.lockGame(gameID)

	game, err := that.games.Get(gameID)
	if err != nil {
		unlock()
		return fmt.Errorf("failed to get game: %w", err)
	}

	wasPlaying := game.IsPlaying()

	if err = game.RemovePlayer(username); err != nil {
		unlock()
		return fmt.Errorf("failed to leave game: %w", err)
	}

	if len(game.Players) == 0 {
		if err = that.games.Delete(game.ID); err != nil {
			unlock()
			return fmt.Errorf("failed to delete game: %w", err)
		}

		unlock()
		that.locks.Delete(game.ID)

		that.publish(ctx, realtime.LobbyChannel, realtime.Message{
			Event: realtime.EventGameRemoved,
			Game:  game,
		})

		return nil
	}

	if err = that.games.Put(game); err != nil {
		unlock()
		return fmt.Errorf("failed to update game: %w", err)
	}

	unlock()

	that.publish(ctx, realtime.LobbyChannel, realtime.Message{
		Event: realtime.EventGameUpdated,
		Game:  game,
	})
	that.publish(ctx, realtime.GameChannel(game.ID), realtime.Message{
		Event: realtime.EventPlayerLeft,
		Game:  game,
		Mover: username,
	})

	// A forfeit credits the remaining player with a win.
	if wasPlaying && game.IsFinished() {
		that.recordForfeit(ctx, game, username)
	}

	return nil
}

func (that *gamePlayService) ListGames() []*entity.Game {
	return that.games.List()
}

func (that *gamePlayService) GetGame(id string) (*entity.Game, error) {
	game, err := that.games.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) GetStatistics(ctx context.Context, username string) (*entity.PlayerStatistics, error) {
	stats, err := that.stats.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}

	return stats, nil
}

// Cleanup - sweeps all stored games once and removes the stale ones,
// publishing game-removed for each. Returns the number removed. It
// takes the same per-game locks as the request path, so a sweep never
// races a concurrent join or move.
func (that *gamePlayService) Cleanup(ctx context.Context, now time.Time) int {
	log := that.logger.With("method", "Cleanup")

	removed := 0

	for _, candidate := range that.games.List() {
		unlock := that.lockGame(candidate.ID)

		game, err := that.games.Get(candidate.ID)
		if err != nil {
			// already removed by a concurrent leave
			unlock()
			continue
		}

		if !that.policy.IsStale(game, now) {
			unlock()
			continue
		}

		if err = that.games.Delete(game.ID); err != nil {
			log.Error("failed to delete stale game", "gameID", game.ID, "error", err)
			unlock()
			continue
		}

		unlock()
		that.locks.Delete(game.ID)

		that.publish(ctx, realtime.LobbyChannel, realtime.Message{
			Event: realtime.EventGameRemoved,
			Game:  game,
		})

		removed++
	}

	if removed > 0 {
		log.Info("removed stale games", "count", removed)
	}

	return removed
}

// lockGame - acquires the exclusive per-game lock and returns its
// release function. Every read-modify-write on one game runs under it.
func (that *gamePlayService) lockGame(id string) func() {
	lock, _ := that.locks.LoadOrStore(id, &sync.Mutex{})
	mu, _ := lock.(*sync.Mutex)
	mu.Lock()

	return mu.Unlock
}

// publish - best effort. The state mutation already committed, so a
// failed publish is logged and never surfaced to the caller.
func (that *gamePlayService) publish(ctx context.Context, channel string, msg realtime.Message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := that.bus.Publish(ctx, channel, msg); err != nil {
		that.logger.Error("failed to publish event", "channel", channel, "event", msg.Event, "error", err)
	}
}

func (that *gamePlayService) recordOutcome(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "recordOutcome", "gameID", game.ID)

	if game.Winner == entity.WinnerDraw {
		for _, player := range game.Players {
			if err := that.stats.RecordDraw(ctx, player.Username); err != nil {
				log.Error("failed to record draw", "player", player.Username, "error", err)
			}
		}
		return
	}

	winner, ok := game.WinnerUsername()
	if !ok {
		return
	}

	if err := that.stats.RecordWin(ctx, winner); err != nil {
		log.Error("failed to record win", "player", winner, "error", err)
	}

	for _, player := range game.Players {
		if player.Username == winner {
			continue
		}
		if err := that.stats.RecordLoss(ctx, player.Username); err != nil {
			log.Error("failed to record loss", "player", player.Username, "error", err)
		}
	}
}

func (that *gamePlayService) recordForfeit(ctx context.Context, game *entity.Game, leaver string) {
	log := that.logger.With("method", "recordForfeit", "gameID", game.ID)

	for _, player := range game.Players {
		if err := that.stats.RecordWin(ctx, player.Username); err != nil {
			log.Error("failed to record win", "player", player.Username, "error", err)
		}
	}

	if err := that.stats.RecordLoss(ctx, leaver); err != nil {
		log.Error("failed to record loss", "player", leaver, "error", err)
	}
}
