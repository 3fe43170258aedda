package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/activity"
	"github.com/courtsidehq/courtside/internal/auth"
	"github.com/courtsidehq/courtside/internal/event"
	"github.com/courtsidehq/courtside/internal/match"
	"github.com/courtsidehq/courtside/internal/middleware"
	"github.com/courtsidehq/courtside/internal/roster"
	"github.com/courtsidehq/courtside/internal/stats"
	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
)

// SetupRoutes assembles the engine with all middleware and domain routes.
func SetupRoutes(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	if appConfig.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	if appConfig.App.FrontendURL != "" {
		corsConfig.AllowOrigins = []string{appConfig.App.FrontendURL}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.MetricsHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	auth.RegisterAuthRoutes(authGroup, db, appConfig)

	user.RegisterUserRoutes(api, db, appConfig)
	activity.RegisterActivityRoutes(api, db, appConfig)
	team.RegisterTeamRoutes(api, db, appConfig)
	roster.RegisterRosterRoutes(api, db, appConfig)
	event.RegisterEventRoutes(api, db, appConfig)
	match.RegisterMatchRoutes(api, db, appConfig)
	stats.RegisterStatsRoutes(api, db, appConfig)

	return r
}
