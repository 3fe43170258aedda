package stats

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/middleware"
	"github.com/courtsidehq/courtside/internal/user"
)

// RegisterStatsRoutes wires the derived statistics endpoints.
func RegisterStatsRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	service := NewStatsService(db)
	userRepo := user.NewUserRepository(db)
	controller := NewStatsController(service, userRepo)

	authed := router.Group("")
	authed.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authed.GET("/players/:player_id/stats", controller.GetPlayerStats)
		authed.GET("/player/stats", middleware.PlayerOnly(), controller.GetOwnStats)
		authed.GET("/stats/teams", middleware.CoachOrAdmin(), controller.GetTeamStats)
		authed.GET("/dashboard", controller.GetDashboard)
	}
}
