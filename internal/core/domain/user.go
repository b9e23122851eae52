package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// User belongs to exactly one team via TeamID. Referential integrity is
// not enforced: a user may reference a team that no longer exists, in
// which case score aggregation against that team is a no-op.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TeamID    string    `json:"team_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
