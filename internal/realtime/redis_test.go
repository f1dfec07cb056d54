package realtime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/tictactoe-live/internal/entity"
	"github.com/playforge/tictactoe-live/internal/realtime"
	"github.com/playforge/tictactoe-live/testing/suite"
)

func TestRedisBus_Publish(t *testing.T) {
	ctx, st := suite.New(t)

	bus, err := realtime.NewRedisBus(ctx, st.Addr)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, bus.Close())
	})

	// Given: a raw redis subscriber on the lobby channel
	sub := st.Client.Subscribe(ctx, realtime.LobbyChannel)
	t.Cleanup(func() {
		_ = sub.Close()
	})

	_, err = sub.Receive(ctx) // wait for the subscription confirmation
	require.NoError(t, err)

	// When: the bus publishes a game-created event
	game := entity.NewGame("g1", "friday night", "alice")
	err = bus.Publish(ctx, realtime.LobbyChannel, realtime.Message{
		Event: realtime.EventGameCreated,
		Game:  game,
	})
	require.NoError(t, err)

	// Then: the subscriber receives the JSON envelope with the snapshot
	select {
	case raw := <-sub.Channel():
		var msg realtime.Message
		require.NoError(t, json.Unmarshal([]byte(raw.Payload), &msg))
		assert.Equal(t, realtime.EventGameCreated, msg.Event)
		require.NotNil(t, msg.Game)
		assert.Equal(t, "g1", msg.Game.ID)
		assert.Equal(t, entity.StatusWaiting, msg.Game.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for redis message")
	}
}
