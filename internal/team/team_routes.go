package team

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/middleware"
	"github.com/courtsidehq/courtside/internal/user"
)

// RegisterTeamRoutes wires the team endpoints. Reads are open to every
// authenticated role. Coaches may create teams and manage their own; coach
// assignment stays admin only.
func RegisterTeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewTeamRepository(db)
	userRepo := user.NewUserRepository(db)
	controller := NewTeamController(repo, userRepo, db)

	teams := router.Group("/teams")
	teams.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		teams.GET("", controller.GetAllTeams)
		teams.GET("/:team_id", controller.GetTeamByID)
		teams.GET("/:team_id/summary", controller.GetTeamSummary)

		manage := teams.Group("")
		manage.Use(middleware.CoachOrAdmin())
		{
			manage.POST("", controller.CreateTeam)
			manage.PUT("/:team_id", controller.UpdateTeam)
			manage.DELETE("/:team_id", controller.DeleteTeam)
		}

		teams.PUT("/:team_id/coach", middleware.AdminOnly(), controller.AssignCoach)
	}
}
