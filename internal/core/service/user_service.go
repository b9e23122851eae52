package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/podium/leaderboard-api/internal/api/metrics"
	"github.com/podium/leaderboard-api/internal/core/domain"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

type UserService struct {
	users  ports.UserRepository
	scorer ports.TeamScorer
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, scorer ports.TeamScorer, logger zerolog.Logger) *UserService {
	return &UserService{users: users, scorer: scorer, logger: logger}
}

// Create persists the user and then recomputes the target team's score.
// The recompute is best effort: a failure is logged and the create still
// succeeds with the persisted user.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	user := &domain.User{
		Name:      input.Name,
		TeamID:    input.TeamID,
		Score:     input.Score,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.users.Insert(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Str("team_id", input.TeamID).Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("team_id", user.TeamID).Int("score", user.Score).Msg("user created")
	s.recompute(ctx, user.TeamID, "user_create")

	return user, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetByTeam(ctx context.Context, teamID string) ([]*domain.User, error) {
	return s.users.FindByTeam(ctx, teamID)
}

// Update applies the recognized patch fields {name, score, team_id}.
// Recomputes are gated strictly on the store reporting a modification:
// a value-identical patch skips them, even if an earlier race left the
// stored aggregate stale. When a modification happened, the old team is
// recomputed, and the new team as well if team_id changed.
func (s *UserService) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldTeamID := current.TeamID

	modified, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if modified == 0 {
		return nil, domain.ErrUserNotFound
	}

	s.recompute(ctx, oldTeamID, "user_update")
	if patch.TeamID != nil && *patch.TeamID != oldTeamID {
		s.recompute(ctx, *patch.TeamID, "user_update")
	}

	return s.users.FindByID(ctx, id)
}

// Delete removes the user and recomputes the score of the team the user
// belonged to, captured before the delete.
func (s *UserService) Delete(ctx context.Context, id string) error {
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrUserNotFound
	}

	s.logger.Info().Str("user_id", id).Str("team_id", current.TeamID).Msg("user deleted")
	s.recompute(ctx, current.TeamID, "user_delete")
	return nil
}

func (s *UserService) GetLeaderboardByTeam(ctx context.Context, teamID string) ([]*domain.User, error) {
	return s.users.FindLeaderboardByTeam(ctx, teamID)
}

// recompute invokes the team scorer and swallows failures: score
// propagation must never fail the user mutation that triggered it.
func (s *UserService) recompute(ctx context.Context, teamID, trigger string) {
	metrics.RecomputesTotal.WithLabelValues(trigger).Inc()
	if _, err := s.scorer.RecomputeScore(ctx, teamID); err != nil {
		s.logger.Error().Err(err).Str("team_id", teamID).Str("trigger", trigger).Msg("team score recompute failed")
	}
}
