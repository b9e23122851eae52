package service

import (
	"context"
	"errors"

	"github.com/podium/leaderboard-api/internal/core/domain"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

// LeaderboardService is a thin read-only composition over the team and
// user aggregates.
type LeaderboardService struct {
	teams ports.TeamService
	users ports.UserService
}

func NewLeaderboardService(teams ports.TeamService, users ports.UserService) *LeaderboardService {
	return &LeaderboardService{teams: teams, users: users}
}

// Get returns the team leaderboard when teamID is empty, otherwise the
// user leaderboard for that team. An empty user leaderboard is only an
// error when the team does not exist either: a team with zero users is
// a valid empty ranking.
func (s *LeaderboardService) Get(ctx context.Context, teamID string) (*ports.LeaderboardSnapshot, error) {
	if teamID == "" {
		teams, err := s.teams.GetLeaderboard(ctx)
		if err != nil {
			return nil, err
		}
		return &ports.LeaderboardSnapshot{Type: ports.LeaderboardTeams, Teams: teams}, nil
	}

	users, err := s.users.GetLeaderboardByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		if _, err := s.teams.GetByID(ctx, teamID); err != nil {
			if errors.Is(err, domain.ErrTeamNotFound) {
				return nil, domain.ErrTeamNotFound
			}
			return nil, err
		}
	}

	return &ports.LeaderboardSnapshot{Type: ports.LeaderboardUsers, TeamID: teamID, Users: users}, nil
}
