package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/common"
	"github.com/courtsidehq/courtside/internal/user"
	"github.com/courtsidehq/courtside/pkg/responses"
	"github.com/courtsidehq/courtside/pkg/token"
	"github.com/courtsidehq/courtside/pkg/utils"
	"github.com/courtsidehq/courtside/pkg/validator"
)

// AuthController handles registration, login and token rotation.
type AuthController struct {
	repo      AuthRepository
	userRepo  user.UserRepository
	appConfig *config.Config
}

// NewAuthController creates a new auth controller.
func NewAuthController(repo AuthRepository, userRepo user.UserRepository, appConfig *config.Config) *AuthController {
	return &AuthController{
		repo:      repo,
		userRepo:  userRepo,
		appConfig: appConfig,
	}
}

// Register godoc
// @Summary Register a new coach or player account
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body RegisterRequest true "Registration data"
// @Success 201 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 409 {object} responses.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := ac.userRepo.GetUserByEmail(email)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "Email already registered")
		return
	}

	if !user.ValidPosition(user.Position(req.Position)) {
		responses.BadRequest(c, "Unknown player position")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}

	u := &user.User{
		Email:     email,
		Password:  hashed,
		Role:      user.Role(req.Role),
		Status:    user.StatusActive,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}

	err = ac.userRepo.WithTransaction(func(repo user.UserRepository) error {
		if err := repo.CreateUser(u); err != nil {
			return err
		}
		switch u.Role {
		case user.RoleCoach:
			return repo.CreateCoach(&user.Coach{UserID: u.ID})
		case user.RolePlayer:
			return repo.CreatePlayer(&user.Player{
				UserID:       u.ID,
				BirthDate:    req.BirthDate,
				HeightCM:     req.HeightCM,
				WeightKG:     req.WeightKG,
				Position:     user.Position(req.Position),
				JerseyNumber: req.JerseyNumber,
			})
		}
		return nil
	})
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Account created successfully", gin.H{"id": u.ID, "email": u.Email, "role": u.Role})
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} responses.SuccessResponse{data=TokenPair}
// @Failure 401 {object} responses.ErrorResponse "Bad credentials"
// @Failure 403 {object} responses.ErrorResponse "Account deactivated"
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}

	u, err := ac.userRepo.GetUserByEmail(strings.ToLower(req.Email))
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if u == nil || !utils.CheckPassword(u.Password, req.Password) {
		responses.Unauthorized(c, "Invalid email or password")
		return
	}
	if !u.IsActive() {
		responses.Forbidden(c, "Account is deactivated")
		return
	}

	pair, err := ac.issueTokens(u)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Logged in successfully", pair)
}

// Refresh godoc
// @Summary Rotate an access token from a refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} responses.SuccessResponse{data=TokenPair}
// @Failure 401 {object} responses.ErrorResponse "Invalid refresh token"
// @Router /auth/refresh [post]
func (ac *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload")
		return
	}

	claims, err := token.ValidateJWT(req.RefreshToken, ac.appConfig.JWT.RefreshTokenSecret)
	if err != nil {
		responses.Unauthorized(c, "Invalid refresh token")
		return
	}

	stored, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if stored == nil {
		responses.Unauthorized(c, "Refresh token revoked or expired")
		return
	}

	u, err := ac.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if u == nil || !u.IsActive() {
		responses.Unauthorized(c, "User not found or inactive")
		return
	}

	if err := ac.repo.RevokeRefreshToken(req.RefreshToken); err != nil {
		responses.InternalServerError(c, "")
		return
	}

	pair, err := ac.issueTokens(u)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Token refreshed", pair)
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Failure 401 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	u, err := ac.userRepo.GetUserByID(userID)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile retrieved successfully", u)
}

func (ac *AuthController) issueTokens(u *user.User) (*TokenPair, error) {
	access, err := token.GenerateJWT(u.ID, string(u.Role), ac.appConfig.JWT.AccessTokenSecret, ac.appConfig.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := token.GenerateRefreshToken(u.ID, ac.appConfig.JWT.RefreshTokenSecret, ac.appConfig.JWT.RefreshTokenExpiryDays)
	if err != nil {
		return nil, err
	}

	err = ac.repo.SaveRefreshToken(&RefreshToken{
		UserID:    u.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(time.Duration(ac.appConfig.JWT.RefreshTokenExpiryDays) * 24 * time.Hour),
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
