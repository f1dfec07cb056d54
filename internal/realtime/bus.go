package realtime

import (
	"context"

	"github.com/playforge/tictactoe-live/internal/entity"
)

// Channel and event names are a wire contract shared with browser
// clients; changing them breaks every subscriber.
const (
	LobbyChannel = "lobby"

	EventGameCreated  = "game-created"
	EventGameUpdated  = "game-updated"
	EventGameRemoved  = "game-removed"
	EventPlayerJoined = "player-joined"
	EventPlayerLeft   = "player-left"
	EventPlayerMoved  = "player-moved"
	EventGameEnded    = "game-ended"
)

// GameChannel - the per-game topic, derived from the game ID.
func GameChannel(gameID string) string {
	return "game-" + gameID
}

// Message is the envelope published for every event. It always carries
// a full game snapshot so subscribers replace their local copy
// wholesale instead of applying diffs; delivery is at-least-once and
// best-effort-ordered per channel, and a client that missed events
// resynchronizes by re-fetching the snapshot over HTTP.
type Message struct {
	Event  string       `json:"event"`
	Game   *entity.Game `json:"game,omitempty"`
	Mover  string       `json:"mover,omitempty"`
	Cell   int          `json:"cell,omitempty"`
	Winner string       `json:"winner,omitempty"`
}

// Bus is the server-side half of the pub/sub provider. Publishing is
// best-effort: a failed publish is logged by the caller and never rolls
// back the state mutation it announces. Subscribing is a client-side
// concern and only the in-memory backend implements it in-process.
type Bus interface {
	Publish(ctx context.Context, channel string, msg Message) error
	Close() error
}
