package match

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/middleware"
	"github.com/courtsidehq/courtside/internal/user"
)

// RegisterMatchRoutes wires the match endpoints. Reads are open to every
// authenticated role; writes require coach or admin and the service checks
// team ownership on top.
func RegisterMatchRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	service := NewMatchService(db)
	repo := NewMatchRepository(db)
	userRepo := user.NewUserRepository(db)
	controller := NewMatchController(service, repo, userRepo)

	matches := router.Group("/matches")
	matches.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		matches.GET("/:match_id", controller.GetMatchByID)

		manage := matches.Group("")
		manage.Use(middleware.CoachOrAdmin())
		{
			manage.PATCH("/:match_id/score", controller.UpdateScore)
			manage.PUT("/:match_id/stats/:player_id", controller.UpdateStatLine)
			manage.POST("/:match_id/complete", controller.CompleteMatch)
		}
	}
}
