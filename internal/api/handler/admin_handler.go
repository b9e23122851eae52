package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/podium/leaderboard-api/internal/core/ports"
)

// AdminHandler exposes maintenance operations.
type AdminHandler struct {
	teams ports.TeamService
}

func NewAdminHandler(teams ports.TeamService) *AdminHandler {
	return &AdminHandler{teams: teams}
}

// RecalculateScores handles POST /api/admin/recalculate-scores: every
// team's score is recomputed from its members from scratch. Running it
// twice in a row changes nothing the second time.
//
// @Summary      Recalculate all team scores
// @Tags         admin
// @Produce      json
// @Success      200  {object}  recalculateResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/admin/recalculate-scores [post]
func (h *AdminHandler) RecalculateScores(c echo.Context) error {
	updated, err := h.teams.RecalculateAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recalculateResponse{
		Message:      fmt.Sprintf("successfully recalculated scores for %d teams", updated),
		TeamsUpdated: updated,
	})
}
