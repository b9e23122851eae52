package ports

import (
	"context"

	"github.com/podium/leaderboard-api/internal/core/domain"
)

// TeamPatch carries the recognized updatable team fields. Nil fields are
// left untouched; anything else a client sends is ignored upstream.
type TeamPatch struct {
	Name  *string
	Score *int
}

// IsEmpty reports whether the patch would modify nothing.
func (p TeamPatch) IsEmpty() bool {
	return p.Name == nil && p.Score == nil
}

// TeamRepository defines persistence operations for teams.
//
// Identity leniency contract: every method taking an id treats a
// malformed id exactly like a valid-but-absent one (not-found result,
// zero count, or no-op) rather than returning an error. Callers must
// not receive an error for bad identities on read/update/delete paths.
type TeamRepository interface {
	// Insert persists a new team and fills in its generated ID.
	Insert(ctx context.Context, t *domain.Team) error
	// FindAll returns every team in store-native order.
	FindAll(ctx context.Context) ([]*domain.Team, error)
	// FindByID returns domain.ErrTeamNotFound for absent or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Team, error)
	// Update applies the non-nil patch fields and returns the number of
	// documents actually modified.
	Update(ctx context.Context, id string, patch TeamPatch) (int64, error)
	// Delete removes the team and returns the number of documents removed.
	Delete(ctx context.Context, id string) (int64, error)
	// UpdateScore overwrites the stored aggregate score. A malformed or
	// absent id makes the write a no-op.
	UpdateScore(ctx context.Context, id string, score int) error
	// FindLeaderboard returns all teams sorted by score descending.
	// Ordering among equal scores is store-native and unspecified.
	FindLeaderboard(ctx context.Context) ([]*domain.Team, error)
}
