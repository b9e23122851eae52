// Package ws implements the push channel: a WebSocket hub that fans
// leaderboard snapshots out to every connected subscriber.
//
// Wire protocol (JSON text frames):
//
//	client → server  {"event":"request_leaderboard","data":{"team_id":"..."}}
//	server → client  {"event":"connection_response","data":{"status":"connected"}}
//	server → client  {"event":"leaderboard_update","data":{"type":...,"team_id":...,"leaderboard":[...]}}
package ws

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/podium/leaderboard-api/internal/api/metrics"
)

// Hub tracks connected clients and fans broadcast payloads out to all of
// them. All state is owned by the Run goroutine; other goroutines talk
// to it through channels only.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run owns the client set until ctx is cancelled. Start it exactly once,
// as a goroutine, before the HTTP server accepts connections.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			metrics.SubscribersConnected.Set(float64(len(h.clients)))
			h.log.Debug().Int("clients", len(h.clients)).Msg("ws client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.SubscribersConnected.Set(float64(len(h.clients)))
				h.log.Debug().Int("clients", len(h.clients)).Msg("ws client disconnected")
			}
		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Slow subscriber: drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
					metrics.SubscribersEvictedTotal.Inc()
					metrics.SubscribersConnected.Set(float64(len(h.clients)))
					h.log.Warn().Msg("ws client evicted: send buffer full")
				}
			}
		}
	}
}

// Broadcast queues a payload for delivery to every connected client.
// Never blocks the caller for long; delivery itself is asynchronous.
func (h *Hub) Broadcast(payload []byte) {
	h.broadcast <- payload
}
