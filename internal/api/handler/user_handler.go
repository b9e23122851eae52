package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/podium/leaderboard-api/internal/core/domain"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations. Every
// successful mutation triggers a team-leaderboard broadcast; the
// broadcast is best effort and never fails the request.
type UserHandler struct {
	service     ports.UserService
	broadcaster ports.Broadcaster
}

func NewUserHandler(service ports.UserService, broadcaster ports.Broadcaster) *UserHandler {
	return &UserHandler{service: service, broadcaster: broadcaster}
}

// notify pushes a fresh team leaderboard to all subscribers. The
// broadcaster logs its own failures; the outcome is deliberately
// discarded here.
func (h *UserHandler) notify(c echo.Context) {
	if h.broadcaster == nil {
		return
	}
	_ = h.broadcaster.BroadcastTeams(c.Request().Context())
}

// Create handles POST /api/users. Creating a user recomputes the target
// team's score as a side effect; the create succeeds even when that
// propagation fails.
//
// @Summary      Create a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Name:   req.Name,
		TeamID: req.TeamID,
		Score:  req.Score,
	})
	if err != nil {
		return err
	}

	h.notify(c)
	return c.JSON(http.StatusCreated, user)
}

// List handles GET /api/users.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      500  {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /api/users/:id. Recognized fields are {name,
// score, team_id}; score and membership changes recompute the affected
// team scores.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patch := ports.UserPatch{Name: req.Name, Score: req.Score, TeamID: req.TeamID}
	if patch.IsEmpty() {
		return echo.NewHTTPError(http.StatusBadRequest, "no data provided")
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found or update failed"})
		}
		return err
	}

	h.notify(c)
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/users/:id. The score of the team the user
// belonged to is recomputed after removal.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		return err
	}

	h.notify(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted successfully"})
}
