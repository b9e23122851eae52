package redis

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const leaderboardChannel = "podium:leaderboard"

// Relay fans leaderboard snapshots out across process instances via
// Redis pub/sub. Each payload is wrapped in an origin-tagged envelope so
// an instance can skip the messages it published itself (its local hub
// already delivered those).
type Relay struct {
	client *redis.Client
	origin string
	log    zerolog.Logger
}

func NewRelay(client *redis.Client, log zerolog.Logger) *Relay {
	return &Relay{
		client: client,
		origin: newOriginID(),
		log:    log,
	}
}

type envelope struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

// Publish sends a snapshot payload to every subscribed instance.
func (r *Relay) Publish(ctx context.Context, payload []byte) error {
	msg, err := json.Marshal(envelope{Origin: r.origin, Payload: payload})
	if err != nil {
		return fmt.Errorf("relay publish: %w", err)
	}
	if err := r.client.Publish(ctx, leaderboardChannel, msg).Err(); err != nil {
		return fmt.Errorf("relay publish: %w", err)
	}
	return nil
}

// Subscribe consumes relayed snapshots until ctx is cancelled, handing
// each foreign payload to deliver. Intended to run as a goroutine;
// malformed messages are logged and dropped.
func (r *Relay) Subscribe(ctx context.Context, deliver func(payload []byte)) {
	sub := r.client.Subscribe(ctx, leaderboardChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.log.Warn().Err(err).Msg("relay: dropping malformed message")
				continue
			}
			if env.Origin == r.origin {
				continue
			}
			deliver(env.Payload)
		}
	}
}

// newOriginID returns a random instance identity. Uniqueness only has
// to hold among live instances sharing a Redis.
func newOriginID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "origin-unknown"
	}
	return fmt.Sprintf("%x", b)
}
