package server

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcastDropsSaturatedClients(t *testing.T) {
	s := &GameServer{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	// Nothing drains this channel, so the broadcast must not block on it.
	slow := &Client{send: make(chan WSMessage)}
	s.clients.Store(slow, true)

	fast := &Client{send: make(chan WSMessage, 1)}
	s.clients.Store(fast, true)

	s.broadcastMessage(WSMessage{Type: "leaderboard"})

	msg := <-fast.send
	require.Equal(t, "leaderboard", msg.Type)

	_, open := <-slow.send
	require.False(t, open, "saturated client's channel must be closed")
	_, registered := s.clients.Load(slow)
	require.False(t, registered, "saturated client must be dropped from the hub")

	// Only registered clients are subject to closing; a client that is not
	// yet in the hub can be queued to safely regardless of broadcasts.
	pending := &Client{send: make(chan WSMessage, 1)}
	pending.send <- WSMessage{Type: "leaderboard"}
	s.broadcastMessage(WSMessage{Type: "new_best"})

	msg = <-pending.send
	require.Equal(t, "leaderboard", msg.Type)
}
