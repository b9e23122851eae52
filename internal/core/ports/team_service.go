package ports

import (
	"context"

	"github.com/podium/leaderboard-api/internal/core/domain"
)

// TeamScorer is the one write path into the derived team score. The user
// aggregate depends on this interface so the cross-aggregate side effect
// is visible in a signature instead of hiding in an inline call.
type TeamScorer interface {
	// RecomputeScore sums the scores of all users referencing teamID
	// (absent score counts as 0), stores the sum on the team, and
	// returns it. A teamID that resolves to no team makes the write a
	// no-op; the computed sum (0) is still returned. Idempotent: two
	// consecutive calls with no intervening user mutation yield the
	// same score and no further observable change.
	RecomputeScore(ctx context.Context, teamID string) (int, error)
}

// TeamService defines use-case operations for teams.
type TeamService interface {
	TeamScorer

	// Create makes a new team with score 0 and returns it with its
	// generated identity.
	Create(ctx context.Context, name string) (*domain.Team, error)
	GetAll(ctx context.Context) ([]*domain.Team, error)
	// GetByID returns domain.ErrTeamNotFound for absent or malformed ids.
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	// Update applies the recognized patch fields and returns the updated
	// team. domain.ErrTeamNotFound when no stored field changed.
	Update(ctx context.Context, id string, patch TeamPatch) (*domain.Team, error)
	// Delete returns domain.ErrTeamNotFound when nothing was removed.
	// Deleting a team does not cascade to its users; they keep their
	// now-dangling team_id.
	Delete(ctx context.Context, id string) error
	// GetLeaderboard returns all teams sorted by score descending.
	GetLeaderboard(ctx context.Context) ([]*domain.Team, error)
	// RecalculateAll recomputes every team's score from scratch and
	// returns the number of teams processed.
	RecalculateAll(ctx context.Context) (int, error)
}
