package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/config"
	mw "github.com/courtsidehq/courtside/internal/middleware"
	"github.com/courtsidehq/courtside/internal/user"
)

// RegisterAuthRoutes wires the auth endpoints.
func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewAuthRepository(db)
	userRepo := user.NewUserRepository(db)
	controller := NewAuthController(repo, userRepo, appConfig)

	router.POST("/register", controller.Register)
	router.POST("/login", controller.Login)
	router.POST("/refresh", controller.Refresh)

	authed := router.Group("/")
	authed.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authed.GET("/me", controller.Me)
	}
}
