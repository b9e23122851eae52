package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/podium/leaderboard-api/internal/api/handler"
	"github.com/podium/leaderboard-api/internal/api/ws"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

// Deps carries everything the router needs, constructed at process
// start and injected here. No service builds its own dependencies.
type Deps struct {
	Logger      zerolog.Logger
	Teams       ports.TeamService
	Users       ports.UserService
	Leaderboard ports.LeaderboardService
	Broadcaster ports.Broadcaster
	Push        *ws.Handler
	Mongo       *mongo.Database
	Redis       *redis.Client // nil when the broadcast relay is disabled
}

// NewRouter builds and returns the Echo instance with all routes
// registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
	}))
	e.Use(echoprometheus.NewMiddleware("podium"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Handlers ---
	infoHandler := handler.NewInfoHandler()
	teamHandler := handler.NewTeamHandler(d.Teams)
	userHandler := handler.NewUserHandler(d.Users, d.Broadcaster)
	leaderboardHandler := handler.NewLeaderboardHandler(d.Leaderboard)
	adminHandler := handler.NewAdminHandler(d.Teams)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	// --- Routes ---
	e.GET("/", infoHandler.Index)

	api := e.Group("/api")
	api.POST("/teams", teamHandler.Create)
	api.GET("/teams", teamHandler.List)
	api.GET("/teams/:id", teamHandler.Get)
	api.PUT("/teams/:id", teamHandler.Update)
	api.DELETE("/teams/:id", teamHandler.Delete)

	api.POST("/users", userHandler.Create)
	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)
	api.PUT("/users/:id", userHandler.Update)
	api.DELETE("/users/:id", userHandler.Delete)

	api.GET("/leaderboard", leaderboardHandler.Get)
	api.POST("/admin/recalculate-scores", adminHandler.RecalculateScores)

	// --- Push channel ---
	e.GET("/ws", d.Push.Serve)

	// --- Probes and metrics ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
