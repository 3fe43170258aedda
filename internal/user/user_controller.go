package user

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtsidehq/courtside/internal/activity"
	"github.com/courtsidehq/courtside/internal/common"
	"github.com/courtsidehq/courtside/pkg/responses"
	"github.com/courtsidehq/courtside/pkg/utils"
	"github.com/courtsidehq/courtside/pkg/validator"
	"gorm.io/gorm"
)

// UserController handles the admin user-management surface.
type UserController struct {
	repo UserRepository
	db   *gorm.DB
}

// NewUserController creates a new user controller.
func NewUserController(repo UserRepository, db *gorm.DB) *UserController {
	return &UserController{repo: repo, db: db}
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"required,oneof=ADMIN COACH PLAYER"`

	BirthDate    *time.Time `json:"birth_date,omitempty"`
	HeightCM     int        `json:"height_cm,omitempty"`
	WeightKG     int        `json:"weight_kg,omitempty"`
	Position     string     `json:"position,omitempty"`
	JerseyNumber int        `json:"jersey_number,omitempty"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

// GetAllUsers godoc
// @Summary List users
// @Description Lists users with optional role, status and name/email filters.
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by account status"
// @Param search query string false "Substring search on name or email"
// @Success 200 {object} responses.PaginatedResponse{data=[]User}
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (uc *UserController) GetAllUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	filters := make(map[string]interface{})
	if role := c.Query("role"); role != "" {
		filters["role"] = strings.ToUpper(role)
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = strings.ToUpper(status)
	}
	if search := c.Query("search"); search != "" {
		filters["search"] = search
	}

	users, total, err := uc.repo.GetAllUsers(page, limit, filters)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve users: "+err.Error())
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Users retrieved successfully", users, total, page, limit)
}

// CreateUser godoc
// @Summary Create a user of any role
// @Tags Users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User data"
// @Success 201 {object} responses.SuccessResponse{data=User}
// @Failure 409 {object} responses.ErrorResponse "Email already registered"
// @Security ApiKeyAuth
// @Router /admin/users [post]
func (uc *UserController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := uc.repo.GetUserByEmail(email)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "Email already registered")
		return
	}
	if !ValidPosition(Position(req.Position)) {
		responses.BadRequest(c, "Unknown player position")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}

	u := &User{
		Email:     email,
		Password:  hashed,
		Role:      Role(req.Role),
		Status:    StatusActive,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}

	err = uc.repo.WithTransaction(func(repo UserRepository) error {
		if err := repo.CreateUser(u); err != nil {
			return err
		}
		switch u.Role {
		case RoleCoach:
			return repo.CreateCoach(&Coach{UserID: u.ID})
		case RolePlayer:
			return repo.CreatePlayer(&Player{
				UserID:       u.ID,
				BirthDate:    req.BirthDate,
				HeightCM:     req.HeightCM,
				WeightKG:     req.WeightKG,
				Position:     Position(req.Position),
				JerseyNumber: req.JerseyNumber,
			})
		}
		return nil
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	actorID, _ := common.GetUserIDFromContext(c)
	_ = activity.Record(uc.db, "user.create", "user", u.ID, actorID)

	responses.SendSuccess(c, http.StatusCreated, "User created successfully", u)
}

// SetUserStatus godoc
// @Summary Activate or deactivate a user
// @Description Deactivation is a soft state change; the account is never deleted.
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path uint true "User ID"
// @Param status body SetStatusRequest true "New status"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Security ApiKeyAuth
// @Router /admin/users/{user_id}/status [patch]
func (uc *UserController) SetUserStatus(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}

	u, err := uc.repo.GetUserByID(uint(userID))
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}

	if err := uc.repo.SetUserStatus(uint(userID), Status(req.Status)); err != nil {
		responses.InternalServerError(c, "")
		return
	}

	actorID, _ := common.GetUserIDFromContext(c)
	_ = activity.Record(uc.db, "user.status", "user", uint(userID), actorID)

	responses.SendSuccess(c, http.StatusOK, "User status updated", gin.H{"id": userID, "status": req.Status})
}
