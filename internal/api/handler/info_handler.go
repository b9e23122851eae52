package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// InfoHandler serves the API welcome document at the root route.
type InfoHandler struct{}

func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

type infoResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
	WebSocket string            `json:"websocket"`
}

func (h *InfoHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, infoResponse{
		Message: "Welcome to Podium API",
		Endpoints: map[string]string{
			"teams":       "/api/teams",
			"users":       "/api/users",
			"leaderboard": "/api/leaderboard",
		},
		WebSocket: "/ws for real-time leaderboard updates",
	})
}
