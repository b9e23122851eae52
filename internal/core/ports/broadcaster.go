package ports

import "context"

// Broadcaster pushes leaderboard snapshots to all connected push-channel
// subscribers. Delivery is best effort: implementations log failures and
// the returned error exists so callers can observe the outcome, not so
// they fail their own operation on it.
type Broadcaster interface {
	// BroadcastTeams fetches a fresh team leaderboard and pushes it as a
	// full snapshot to every connected subscriber.
	BroadcastTeams(ctx context.Context) error
}
