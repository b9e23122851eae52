package ports

import (
	"context"

	"github.com/podium/leaderboard-api/internal/core/domain"
)

// Leaderboard snapshot types.
const (
	LeaderboardTeams = "teams"
	LeaderboardUsers = "users"
)

// LeaderboardSnapshot is a full current-state ranking, either over all
// teams or over one team's users. It is what both the REST endpoint and
// the push channel serve.
type LeaderboardSnapshot struct {
	Type   string
	TeamID string
	Teams  []*domain.Team
	Users  []*domain.User
}

// Entries returns the ranked records of whichever kind the snapshot
// holds, suitable for direct JSON serialization.
func (s *LeaderboardSnapshot) Entries() any {
	if s.Type == LeaderboardUsers {
		return s.Users
	}
	return s.Teams
}

// LeaderboardService is the read-only query surface over team and user
// rankings.
type LeaderboardService interface {
	// Get returns the team leaderboard when teamID is empty, otherwise
	// the user leaderboard for that team. domain.ErrTeamNotFound when a
	// non-empty teamID matches neither an existing team nor any user; a
	// team with zero users yields a valid empty leaderboard.
	Get(ctx context.Context, teamID string) (*LeaderboardSnapshot, error)
}
