package activity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/middleware"
	"github.com/courtsidehq/courtside/pkg/responses"
)

// ListActivities godoc
// @Summary List recent activity records
// @Tags Activities
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Activity}
// @Security ApiKeyAuth
// @Router /admin/activities [get]
func listActivitiesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 20
		}

		records, total, err := List(db, page, limit)
		if err != nil {
			responses.InternalServerError(c, "")
			return
		}
		responses.SendPaginated(c, http.StatusOK, "Activities retrieved successfully", records, total, page, limit)
	}
}

// RegisterActivityRoutes wires the admin activity feed endpoint.
func RegisterActivityRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	admin := router.Group("/admin/activities")
	admin.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db), middleware.AdminOnly())
	{
		admin.GET("", listActivitiesHandler(db))
	}
}
