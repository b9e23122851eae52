// Package main wires the Podium leaderboard API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/podium/leaderboard-api/internal/api"
	"github.com/podium/leaderboard-api/internal/api/ws"
	"github.com/podium/leaderboard-api/internal/core/service"
	mongodb "github.com/podium/leaderboard-api/internal/infrastructure/db/mongo"
	redisdb "github.com/podium/leaderboard-api/internal/infrastructure/db/redis"
	"github.com/podium/leaderboard-api/internal/pkg/config"
	"github.com/podium/leaderboard-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	// --- Redis (optional broadcast relay) ---
	var relay *redisdb.Relay
	var readinessRedis *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, broadcasts stay instance-local")
		} else {
			defer rdb.Close()
			relay = redisdb.NewRelay(rdb, log)
			readinessRedis = rdb
			log.Info().Str("addr", cfg.Redis.Addr).Msg("broadcast relay enabled")
		}
	}

	// --- Repositories and services ---
	teamRepo := mongodb.NewTeamRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	teamService := service.NewTeamService(teamRepo, userRepo, log)
	userService := service.NewUserService(userRepo, teamService, log)
	leaderboardService := service.NewLeaderboardService(teamService, userService)

	// --- Push channel ---
	hub := ws.NewHub(log)
	go hub.Run(ctx)
	if relay != nil {
		go relay.Subscribe(ctx, hub.Broadcast)
	}
	broadcaster := ws.NewBroadcaster(hub, leaderboardService, relayOrNil(relay), log)
	pushHandler := ws.NewHandler(hub, leaderboardService, log)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Logger:      log,
		Teams:       teamService,
		Users:       userService,
		Leaderboard: leaderboardService,
		Broadcaster: broadcaster,
		Push:        pushHandler,
		Mongo:       db,
		Redis:       readinessRedis,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("podium api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown failed")
	}
}

// relayOrNil keeps a typed-nil *Relay from sneaking into the
// ws.Relay interface value.
func relayOrNil(r *redisdb.Relay) ws.Relay {
	if r == nil {
		return nil
	}
	return r
}
