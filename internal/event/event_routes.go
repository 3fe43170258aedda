package event

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/middleware"
	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
)

// RegisterEventRoutes wires the calendar endpoints. Listing is scoped to the
// caller's role inside the controller, so everything sits behind auth only;
// the creation and status routes add the coach/admin guard on top.
func RegisterEventRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	service := NewEventService(db)
	repo := NewEventRepository(db)
	userRepo := user.NewUserRepository(db)
	teamRepo := team.NewTeamRepository(db)
	controller := NewEventController(service, repo, userRepo, teamRepo, db)

	events := router.Group("/events")
	events.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		events.GET("", controller.ListEvents)
		events.GET("/:event_id", controller.GetEventByID)
		events.PUT("/:event_id/attendance", middleware.PlayerOnly(), controller.UpdateAttendance)

		events.POST("", middleware.CoachOrAdmin(), controller.CreateEvent)
		events.PATCH("/:event_id/status", middleware.CoachOrAdmin(), controller.UpdateStatus)
	}
}
