package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/podium/leaderboard-api/internal/api/metrics"
	"github.com/podium/leaderboard-api/internal/core/domain"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

type TeamService struct {
	teams  ports.TeamRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewTeamService(teams ports.TeamRepository, users ports.UserRepository, logger zerolog.Logger) *TeamService {
	return &TeamService{teams: teams, users: users, logger: logger}
}

// Create makes a new team with an initial score of 0.
func (s *TeamService) Create(ctx context.Context, name string) (*domain.Team, error) {
	team := &domain.Team{
		Name:      name,
		Score:     0,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.teams.Insert(ctx, team); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create team")
		return nil, err
	}

	s.logger.Info().Str("team_id", team.ID).Str("name", name).Msg("team created")
	return team, nil
}

func (s *TeamService) GetAll(ctx context.Context) ([]*domain.Team, error) {
	return s.teams.FindAll(ctx)
}

func (s *TeamService) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	return s.teams.FindByID(ctx, id)
}

// Update applies the recognized patch fields {name, score} and returns
// the updated team. ErrTeamNotFound when no stored field changed, which
// covers absent ids, malformed ids, and value-identical patches alike.
func (s *TeamService) Update(ctx context.Context, id string, patch ports.TeamPatch) (*domain.Team, error) {
	modified, err := s.teams.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if modified == 0 {
		return nil, domain.ErrTeamNotFound
	}
	return s.teams.FindByID(ctx, id)
}

func (s *TeamService) Delete(ctx context.Context, id string) error {
	deleted, err := s.teams.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrTeamNotFound
	}

	// No cascade: users referencing this team keep their dangling
	// team_id and simply stop contributing to any live aggregate.
	s.logger.Info().Str("team_id", id).Msg("team deleted")
	return nil
}

// RecomputeScore restores the derived-score invariant for one team: it
// reads the team's current members, sums their scores, and writes the
// sum back. The read and the write are not atomic; overlapping
// recomputes can interleave, and a later uncontended call self-corrects.
func (s *TeamService) RecomputeScore(ctx context.Context, teamID string) (int, error) {
	users, err := s.users.FindByTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, u := range users {
		total += u.Score
	}

	if err := s.teams.UpdateScore(ctx, teamID, total); err != nil {
		return total, err
	}

	s.logger.Debug().Str("team_id", teamID).Int("score", total).Int("members", len(users)).Msg("team score recomputed")
	return total, nil
}

func (s *TeamService) GetLeaderboard(ctx context.Context) ([]*domain.Team, error) {
	return s.teams.FindLeaderboard(ctx)
}

// RecalculateAll recomputes every team's score from scratch. Individual
// recompute failures are logged and skipped so one bad team does not
// abort the sweep; the returned count covers the teams that recomputed
// cleanly.
func (s *TeamService) RecalculateAll(ctx context.Context) (int, error) {
	teams, err := s.teams.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, team := range teams {
		metrics.RecomputesTotal.WithLabelValues("admin").Inc()
		score, err := s.RecomputeScore(ctx, team.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("team_id", team.ID).Msg("recalculation failed for team")
			continue
		}
		s.logger.Info().Str("team_id", team.ID).Str("name", team.Name).Int("score", score).Msg("team score recalculated")
		updated++
	}
	return updated, nil
}
