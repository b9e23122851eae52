package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/podium/leaderboard-api/internal/core/domain"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

// TeamHandler handles HTTP requests for team operations.
type TeamHandler struct {
	service ports.TeamService
}

func NewTeamHandler(service ports.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// Create handles POST /api/teams.
//
// @Summary      Create a new team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        body  body      createTeamRequest  true  "Team details"
// @Success      201   {object}  domain.Team
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/teams [post]
func (h *TeamHandler) Create(c echo.Context) error {
	var req createTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	team, err := h.service.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, team)
}

// List handles GET /api/teams.
//
// @Summary      List all teams
// @Tags         teams
// @Produce      json
// @Success      200  {array}   domain.Team
// @Failure      500  {object}  errorResponse
// @Router       /api/teams [get]
func (h *TeamHandler) List(c echo.Context) error {
	teams, err := h.service.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, teams)
}

// Get handles GET /api/teams/:id. A malformed id is indistinguishable
// from an absent one: both yield 404, never 500.
//
// @Summary      Get a team by id
// @Tags         teams
// @Produce      json
// @Param        id   path      string  true  "Team id"
// @Success      200  {object}  domain.Team
// @Failure      404  {object}  errorResponse
// @Router       /api/teams/{id} [get]
func (h *TeamHandler) Get(c echo.Context) error {
	team, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "team not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, team)
}

// Update handles PUT /api/teams/:id. Only {name, score} are recognized;
// a patch that modifies nothing yields 404.
//
// @Summary      Update a team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Team id"
// @Param        body  body      updateTeamRequest  true  "Fields to update"
// @Success      200   {object}  domain.Team
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/teams/{id} [put]
func (h *TeamHandler) Update(c echo.Context) error {
	var req updateTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patch := ports.TeamPatch{Name: req.Name, Score: req.Score}
	if patch.IsEmpty() {
		return echo.NewHTTPError(http.StatusBadRequest, "no data provided")
	}

	team, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "team not found or update failed"})
		}
		return err
	}
	return c.JSON(http.StatusOK, team)
}

// Delete handles DELETE /api/teams/:id. Users of the deleted team are
// left in place with their dangling team_id (no cascade).
//
// @Summary      Delete a team
// @Tags         teams
// @Produce      json
// @Param        id   path      string  true  "Team id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/teams/{id} [delete]
func (h *TeamHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "team not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "team deleted successfully"})
}
