package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/podium/leaderboard-api/internal/core/ports"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum inbound message size; clients only send small requests.
	maxMessageSize = 1024
	// Per-client outbound buffer; clients slower than this get evicted.
	sendBuffer = 32
)

// Events exchanged over the push channel.
const (
	eventConnectionResponse = "connection_response"
	eventRequestLeaderboard = "request_leaderboard"
	eventLeaderboardUpdate  = "leaderboard_update"
)

type clientMessage struct {
	Event string `json:"event"`
	Data  struct {
		TeamID string `json:"team_id"`
	} `json:"data"`
}

type serverMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is one connected push-channel subscriber. readPump and
// writePump each own one side of the connection; the hub talks to the
// client exclusively through the send channel.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	boards ports.LeaderboardService
	log    zerolog.Logger
}

// readPump consumes inbound frames until the connection drops. The only
// recognized client event is request_leaderboard: the reply goes to this
// client alone, not the whole hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("ws read failed")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Warn().Err(err).Msg("ws: dropping malformed client message")
			continue
		}
		if msg.Event == eventRequestLeaderboard {
			c.sendLeaderboard(msg.Data.TeamID)
		}
	}
}

// sendLeaderboard replies to an explicit snapshot request. Failures are
// logged only; the connection stays up.
func (c *Client) sendLeaderboard(teamID string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	snap, err := c.boards.Get(ctx, teamID)
	if err != nil {
		c.log.Warn().Err(err).Str("team_id", teamID).Msg("ws: leaderboard request failed")
		return
	}

	payload, err := MarshalSnapshot(snap)
	if err != nil {
		c.log.Error().Err(err).Msg("ws: snapshot marshal failed")
		return
	}

	select {
	case c.send <- payload:
	default:
		c.log.Warn().Msg("ws: send buffer full, dropping requested snapshot")
	}
}

// writePump pushes queued payloads and keepalive pings to the peer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
