package user

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/middleware"
)

// RegisterUserRoutes wires the admin user-management endpoints.
func RegisterUserRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewUserRepository(db)
	controller := NewUserController(repo, db)

	admin := router.Group("/admin/users")
	admin.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db), middleware.AdminOnly())
	{
		admin.GET("", controller.GetAllUsers)
		admin.POST("", controller.CreateUser)
		admin.PATCH("/:user_id/status", controller.SetUserStatus)
	}
}
