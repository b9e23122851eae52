package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/podium/leaderboard-api/internal/core/ports"
)

// All origins are accepted, matching the API's open CORS policy.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Handler upgrades HTTP requests to push-channel subscriptions.
type Handler struct {
	hub    *Hub
	boards ports.LeaderboardService
	log    zerolog.Logger
}

func NewHandler(hub *Hub, boards ports.LeaderboardService, log zerolog.Logger) *Handler {
	return &Handler{hub: hub, boards: boards, log: log}
}

// Serve handles GET /ws. On connect the client gets a
// connection_response acknowledgment and nothing else: snapshots arrive
// only on explicit request or after a user mutation elsewhere.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.log.Debug().Err(err).Msg("ws upgrade failed")
		return nil
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		boards: h.boards,
		log:    h.log,
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()

	ack, _ := json.Marshal(serverMessage{
		Event: eventConnectionResponse,
		Data:  map[string]string{"status": "connected"},
	})
	select {
	case client.send <- ack:
	default:
	}

	return nil
}
