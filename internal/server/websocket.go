package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

type Client struct {
	conn *websocket.Conn
	send chan WSMessage
}

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// handleLeaderboardWS streams leaderboard updates. The current standings are
// pushed once on connect, then on every new best score.
func (s *GameServer) handleLeaderboardWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan WSMessage, 256),
	}

	// Queue the current standings before the client is visible to the
	// broadcaster; only registered clients may have their channel closed.
	if lb, err := s.db.GetLeaderboard(c.Request.Context(), leaderboardSize); err == nil {
		client.send <- WSMessage{Type: "leaderboard", Payload: lb}
	}

	s.clients.Store(client, true)

	go client.writePump()
	go client.readPump(s)
}

func (client *Client) writePump() {
	defer func() {
		client.conn.Close()
	}()

	for message := range client.send {
		err := client.conn.WriteJSON(message)
		if err != nil {
			return
		}
	}
}

func (client *Client) readPump(s *GameServer) {
	defer func() {
		s.clients.Delete(client)
		client.conn.Close()
	}()

	for {
		var message WSMessage
		err := client.conn.ReadJSON(&message)
		if err != nil {
			break
		}

		// Subscribers only listen, incoming messages are ignored.
	}
}

// broadcastBestScore pushes refreshed standings to every subscriber after a
// user records a new personal best.
func (s *GameServer) broadcastBestScore(ctx context.Context, userID string, score int) {
	lb, err := s.db.GetLeaderboard(ctx, leaderboardSize)
	if err != nil {
		s.log.Error("failed to refresh leaderboard for broadcast", "err", err)
		return
	}

	s.broadcastMessage(WSMessage{Type: "leaderboard", Payload: lb})
	s.broadcastMessage(WSMessage{Type: "new_best", Payload: gin.H{"userId": userID, "score": score}})
}

func (s *GameServer) broadcastMessage(message WSMessage) {
	s.clients.Range(func(key, _ interface{}) bool {
		if client, ok := key.(*Client); ok {
			select {
			case client.send <- message:
			default:
				s.clients.Delete(client)
				close(client.send)
			}
		}
		return true
	})
}
