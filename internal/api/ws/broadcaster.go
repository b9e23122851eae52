package ws

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/podium/leaderboard-api/internal/api/metrics"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

// leaderboardPayload mirrors the /api/leaderboard response shape so the
// push channel and the REST surface stay interchangeable for clients.
type leaderboardPayload struct {
	Type        string `json:"type"`
	TeamID      string `json:"team_id,omitempty"`
	Leaderboard any    `json:"leaderboard"`
}

// MarshalSnapshot encodes a snapshot as a leaderboard_update frame.
func MarshalSnapshot(snap *ports.LeaderboardSnapshot) ([]byte, error) {
	return json.Marshal(serverMessage{
		Event: eventLeaderboardUpdate,
		Data: leaderboardPayload{
			Type:        snap.Type,
			TeamID:      snap.TeamID,
			Leaderboard: snap.Entries(),
		},
	})
}

// Relay is the cross-instance fan-out the broadcaster publishes through.
// Nil-able: without one, broadcasts stay instance-local.
type Relay interface {
	Publish(ctx context.Context, payload []byte) error
}

// Broadcaster implements ports.Broadcaster on top of the hub, with an
// optional relay for multi-instance deployments. Everything here is
// best effort: failures are counted and logged, never propagated as a
// request failure by callers.
type Broadcaster struct {
	hub    *Hub
	boards ports.LeaderboardService
	relay  Relay
	log    zerolog.Logger
}

func NewBroadcaster(hub *Hub, boards ports.LeaderboardService, relay Relay, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{hub: hub, boards: boards, relay: relay, log: log}
}

// BroadcastTeams recomputes the team leaderboard via a fresh query and
// pushes the full snapshot to every connected subscriber, and through
// the relay to other instances when one is configured.
func (b *Broadcaster) BroadcastTeams(ctx context.Context) error {
	snap, err := b.boards.Get(ctx, "")
	if err != nil {
		metrics.BroadcastsTotal.WithLabelValues("error").Inc()
		b.log.Warn().Err(err).Msg("broadcast skipped: leaderboard fetch failed")
		return err
	}

	payload, err := MarshalSnapshot(snap)
	if err != nil {
		metrics.BroadcastsTotal.WithLabelValues("error").Inc()
		b.log.Error().Err(err).Msg("broadcast skipped: snapshot marshal failed")
		return err
	}

	b.hub.Broadcast(payload)

	if b.relay != nil {
		if err := b.relay.Publish(ctx, payload); err != nil {
			// Local clients got their snapshot; only cross-instance
			// delivery degraded.
			b.log.Warn().Err(err).Msg("broadcast relay publish failed")
		}
	}

	metrics.BroadcastsTotal.WithLabelValues("ok").Inc()
	return nil
}
