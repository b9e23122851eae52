package ports

import (
	"context"

	"github.com/podium/leaderboard-api/internal/core/domain"
)

// CreateUserInput carries all data needed to create a new user.
type CreateUserInput struct {
	Name   string
	TeamID string
	Score  int
}

// UserService defines use-case operations for users. Mutations that
// change score or team membership trigger a team score recompute via
// the TeamScorer port; recompute failures never fail the primary
// mutation (they are logged).
type UserService interface {
	// Create persists the user, then recomputes the target team's score.
	// The create succeeds even when the recompute fails.
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	// GetByID returns domain.ErrUserNotFound for absent or malformed ids.
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByTeam yields an empty slice for malformed or unknown team ids.
	GetByTeam(ctx context.Context, teamID string) ([]*domain.User, error)
	// Update applies the recognized patch fields. When the store reports
	// at least one modified field, the old team's score is recomputed,
	// and when team_id changed to a different value the new team's score
	// as well. A zero-modification update skips recomputes entirely.
	// domain.ErrUserNotFound when nothing changed.
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	// Delete removes the user and recomputes the score of the team the
	// user belonged to (captured before deletion).
	Delete(ctx context.Context, id string) error
	// GetLeaderboardByTeam returns the team's users sorted by score
	// descending.
	GetLeaderboardByTeam(ctx context.Context, teamID string) ([]*domain.User, error)
}
