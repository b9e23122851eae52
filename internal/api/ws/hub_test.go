package ws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/podium/leaderboard-api/internal/core/domain"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

type stubBoards struct {
	getFn func(ctx context.Context, teamID string) (*ports.LeaderboardSnapshot, error)
}

func (s *stubBoards) Get(ctx context.Context, teamID string) (*ports.LeaderboardSnapshot, error) {
	return s.getFn(ctx, teamID)
}

func newHubFixture(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)
	return hub
}

func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{hub: hub, send: make(chan []byte, buffer), log: zerolog.Nop()}
}

func recvPayload(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed unexpectedly")
		}
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for payload")
		return nil
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := newHubFixture(t)

	first := newTestClient(hub, sendBuffer)
	second := newTestClient(hub, sendBuffer)
	hub.register <- first
	hub.register <- second

	hub.Broadcast([]byte(`{"event":"leaderboard_update"}`))

	for _, c := range []*Client{first, second} {
		if got := string(recvPayload(t, c)); got != `{"event":"leaderboard_update"}` {
			t.Fatalf("unexpected payload: %s", got)
		}
	}
}

func TestHub_EvictsSlowSubscriber(t *testing.T) {
	hub := newHubFixture(t)

	fast := newTestClient(hub, sendBuffer)
	slow := newTestClient(hub, 0) // no buffer, no reader
	hub.register <- fast
	hub.register <- slow

	hub.Broadcast([]byte("snapshot-1"))

	if got := string(recvPayload(t, fast)); got != "snapshot-1" {
		t.Fatalf("unexpected payload: %s", got)
	}

	// The slow client's channel is closed on eviction.
	select {
	case _, ok := <-slow.send:
		if ok {
			t.Fatal("expected closed channel, got payload")
		}
	case <-time.After(time.Second):
		t.Fatal("slow client was not evicted")
	}

	// Later broadcasts still reach the surviving client.
	hub.Broadcast([]byte("snapshot-2"))
	if got := string(recvPayload(t, fast)); got != "snapshot-2" {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := newHubFixture(t)

	client := newTestClient(hub, sendBuffer)
	hub.register <- client
	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected closed channel, got payload")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHub_ShutdownClosesAllClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	client := newTestClient(hub, sendBuffer)
	hub.register <- client

	cancel()

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected closed channel, got payload")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on shutdown")
	}
}

func TestClient_RequestedSnapshotGoesToRequesterOnly(t *testing.T) {
	hub := newHubFixture(t)

	requester := newTestClient(hub, sendBuffer)
	bystander := newTestClient(hub, sendBuffer)
	hub.register <- requester
	hub.register <- bystander

	requester.boards = &stubBoards{
		getFn: func(_ context.Context, teamID string) (*ports.LeaderboardSnapshot, error) {
			if teamID != "t1" {
				t.Fatalf("unexpected team id: %s", teamID)
			}
			return &ports.LeaderboardSnapshot{
				Type:   ports.LeaderboardUsers,
				TeamID: teamID,
				Users:  []*domain.User{{ID: "u1", Name: "Alice", TeamID: teamID, Score: 100}},
			}, nil
		},
	}
	requester.sendLeaderboard("t1")

	var msg struct {
		Event string `json:"event"`
		Data  struct {
			Type   string `json:"type"`
			TeamID string `json:"team_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(recvPayload(t, requester), &msg); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if msg.Event != eventLeaderboardUpdate || msg.Data.Type != "users" || msg.Data.TeamID != "t1" {
		t.Fatalf("unexpected frame: %+v", msg)
	}

	select {
	case payload := <-bystander.send:
		t.Fatalf("bystander should not receive requested snapshot: %s", payload)
	default:
	}
}

func TestClient_FailedRequestKeepsConnectionQuiet(t *testing.T) {
	hub := newHubFixture(t)

	client := newTestClient(hub, sendBuffer)
	client.boards = &stubBoards{
		getFn: func(context.Context, string) (*ports.LeaderboardSnapshot, error) {
			return nil, errors.New("store down")
		},
	}
	client.sendLeaderboard("missing")

	select {
	case payload := <-client.send:
		t.Fatalf("expected no reply on failure, got %s", payload)
	default:
	}
}

func TestMarshalSnapshot(t *testing.T) {
	payload, err := MarshalSnapshot(&ports.LeaderboardSnapshot{
		Type: ports.LeaderboardTeams,
		Teams: []*domain.Team{
			{ID: "t1", Name: "Red", Score: 30},
			{ID: "t2", Name: "Blue", Score: 10},
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var msg struct {
		Event string `json:"event"`
		Data  struct {
			Type        string           `json:"type"`
			Leaderboard []map[string]any `json:"leaderboard"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if msg.Event != eventLeaderboardUpdate {
		t.Fatalf("unexpected event: %s", msg.Event)
	}
	if msg.Data.Type != "teams" || len(msg.Data.Leaderboard) != 2 {
		t.Fatalf("unexpected data: %+v", msg.Data)
	}
	if msg.Data.Leaderboard[0]["name"] != "Red" {
		t.Fatalf("unexpected ranking head: %+v", msg.Data.Leaderboard[0])
	}
}
