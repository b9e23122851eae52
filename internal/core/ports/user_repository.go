package ports

import (
	"context"

	"github.com/podium/leaderboard-api/internal/core/domain"
)

// UserPatch carries the recognized updatable user fields.
type UserPatch struct {
	Name   *string
	Score  *int
	TeamID *string
}

// IsEmpty reports whether the patch would modify nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Score == nil && p.TeamID == nil
}

// UserRepository defines persistence operations for users. The same
// identity leniency contract as TeamRepository applies: malformed ids
// degrade to not-found/empty results, never errors.
type UserRepository interface {
	// Insert persists a new user and fills in its generated ID. The
	// user's TeamID must be a well-formed identity; it does not have to
	// reference an existing team.
	Insert(ctx context.Context, u *domain.User) error
	FindAll(ctx context.Context) ([]*domain.User, error)
	// FindByID returns domain.ErrUserNotFound for absent or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByTeam returns all users of a team. A malformed teamID yields
	// an empty slice, not an error.
	FindByTeam(ctx context.Context, teamID string) ([]*domain.User, error)
	// Update applies the non-nil patch fields and returns the number of
	// documents actually modified. A malformed id, or a malformed TeamID
	// inside the patch, yields zero modifications.
	Update(ctx context.Context, id string, patch UserPatch) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	// FindLeaderboardByTeam returns the team's users sorted by score
	// descending.
	FindLeaderboardByTeam(ctx context.Context, teamID string) ([]*domain.User, error)
}
