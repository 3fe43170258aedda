package roster

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/middleware"
	"github.com/courtsidehq/courtside/internal/user"
)

// RegisterRosterRoutes wires the roster endpoints under /teams/:team_id.
// Mutations are restricted to coaches and admins; ownership is checked in the
// service layer. The hard delete stays admin only.
func RegisterRosterRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	service := NewRosterService(db)
	userRepo := user.NewUserRepository(db)
	controller := NewRosterController(service, userRepo)

	teams := router.Group("/teams/:team_id")
	teams.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		teams.GET("/players", controller.ListRoster)
		teams.GET("/eligible-players", middleware.CoachOrAdmin(), controller.ListEligiblePlayers)

		manage := teams.Group("")
		manage.Use(middleware.CoachOrAdmin())
		{
			manage.POST("/players", controller.AssignPlayer)
			manage.PATCH("/players/:player_id", controller.ToggleMembership)
			manage.DELETE("/players/:player_id", controller.RemovePlayer)
		}

		teams.DELETE("/players/:player_id/purge", middleware.AdminOnly(), controller.PurgeMembership)
	}
}
