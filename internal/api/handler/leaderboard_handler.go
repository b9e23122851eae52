package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/podium/leaderboard-api/internal/core/domain"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

// LeaderboardHandler serves ranked read-only views.
type LeaderboardHandler struct {
	service ports.LeaderboardService
}

func NewLeaderboardHandler(service ports.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// Get handles GET /api/leaderboard. Without team_id it returns the team
// ranking; with team_id it returns that team's user ranking. 404 only
// when team_id matches neither a team nor any user; a team with zero
// users gets a valid empty leaderboard.
//
// @Summary      Get leaderboard rankings
// @Tags         leaderboard
// @Produce      json
// @Param        team_id  query     string  false  "Scope to one team's users"
// @Success      200      {object}  leaderboardResponse
// @Failure      404      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/leaderboard [get]
func (h *LeaderboardHandler) Get(c echo.Context) error {
	snap, err := h.service.Get(c.Request().Context(), c.QueryParam("team_id"))
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "team not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, leaderboardResponse{
		Type:        snap.Type,
		TeamID:      snap.TeamID,
		Leaderboard: snap.Entries(),
	})
}
