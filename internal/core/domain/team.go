package domain

import (
	"errors"
	"time"
)

var ErrTeamNotFound = errors.New("team not found")

// Team is an aggregate root. Score is derived: it holds the sum of the
// scores of all users whose team_id references this team, recomputed
// after every user mutation. The API still permits a direct score
// override via update.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
