package main

import (
	"log"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/activity"
	"github.com/courtsidehq/courtside/internal/auth"
	"github.com/courtsidehq/courtside/internal/event"
	"github.com/courtsidehq/courtside/internal/match"
	"github.com/courtsidehq/courtside/internal/roster"
	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
	"github.com/courtsidehq/courtside/pkg/logger"
	"github.com/courtsidehq/courtside/routes"
)

// @title Courtside REST API
// @version 1.0
// @description Club management server: teams, rosters, events and match statistics.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()
	logger.Init(cfg.App.Env)

	err := config.DB.AutoMigrate(
		&user.User{}, &user.Coach{}, &user.Player{},
		&auth.RefreshToken{},
		&team.Team{},
		&roster.TeamPlayer{},
		&event.Event{}, &event.EventTeam{}, &event.EventPlayer{}, &event.EventCoach{},
		&match.Match{}, &match.PlayerStat{},
		&activity.Activity{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	r := routes.SetupRoutes(config.DB, cfg)

	logger.Log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("starting server")
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
