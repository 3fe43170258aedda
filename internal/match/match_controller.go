package match

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtsidehq/courtside/internal/common"
	"github.com/courtsidehq/courtside/internal/user"
	"github.com/courtsidehq/courtside/pkg/responses"
	"github.com/courtsidehq/courtside/pkg/validator"
)

// MatchController handles the match surface.
type MatchController struct {
	service  *MatchService
	repo     MatchRepository
	userRepo user.UserRepository
}

// NewMatchController creates a new match controller.
func NewMatchController(service *MatchService, repo MatchRepository, userRepo user.UserRepository) *MatchController {
	return &MatchController{service: service, repo: repo, userRepo: userRepo}
}

type UpdateScoreRequest struct {
	HomeScore *int `json:"home_score" binding:"required,gte=0"`
	AwayScore *int `json:"away_score" binding:"required,gte=0"`
}

type CompleteMatchRequest struct {
	HomeScore *int `json:"home_score" binding:"omitempty,gte=0"`
	AwayScore *int `json:"away_score" binding:"omitempty,gte=0"`
}

func (mc *MatchController) actorFromContext(c *gin.Context) (Actor, bool) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return Actor{}, false
	}
	role, _ := common.GetUserRoleFromContext(c)

	actor := Actor{UserID: userID, Role: user.Role(role)}
	if actor.Role == user.RoleCoach {
		coach, err := mc.userRepo.GetCoachByUserID(userID)
		if err != nil || coach == nil {
			responses.Forbidden(c, "Coach profile not found")
			return Actor{}, false
		}
		actor.CoachID = coach.ID
	}
	return actor, true
}

func parseMatchID(c *gin.Context) (uint, bool) {
	matchID, err := strconv.ParseUint(c.Param("match_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid match ID")
		return 0, false
	}
	return uint(matchID), true
}

// GetMatchByID godoc
// @Summary Get a match with its stat lines
// @Tags Matches
// @Produce json
// @Param match_id path uint true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Security ApiKeyAuth
// @Router /matches/{match_id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	m, err := mc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match retrieved successfully", m)
}

// UpdateScore godoc
// @Summary Update the running score
// @Description Moves a scheduled match to IN_PROGRESS on the first score write.
// @Tags Matches
// @Accept json
// @Produce json
// @Param match_id path uint true "Match ID"
// @Param score body UpdateScoreRequest true "Score"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 409 {object} responses.ErrorResponse "Match is already completed"
// @Security ApiKeyAuth
// @Router /matches/{match_id}/score [patch]
func (mc *MatchController) UpdateScore(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	var req UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}
	actor, ok := mc.actorFromContext(c)
	if !ok {
		return
	}

	m, err := mc.service.UpdateScore(matchID, *req.HomeScore, *req.AwayScore, actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Score updated", m)
}

// UpdateStatLine godoc
// @Summary Overwrite a player's stat line for the match
// @Description Only players seeded into the match at event creation have a line to update.
// @Tags Matches
// @Accept json
// @Produce json
// @Param match_id path uint true "Match ID"
// @Param player_id path uint true "Player ID"
// @Param stats body StatLine true "Stat line"
// @Success 200 {object} responses.SuccessResponse{data=PlayerStat}
// @Failure 404 {object} responses.ErrorResponse "Player stat line not found"
// @Failure 409 {object} responses.ErrorResponse "Match is already completed"
// @Security ApiKeyAuth
// @Router /matches/{match_id}/stats/{player_id} [put]
func (mc *MatchController) UpdateStatLine(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	playerID, err := strconv.ParseUint(c.Param("player_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid player ID")
		return
	}
	var line StatLine
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}
	actor, ok := mc.actorFromContext(c)
	if !ok {
		return
	}

	stat, err := mc.service.UpdateStatLine(matchID, uint(playerID), line, actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Stat line updated", stat)
}

// CompleteMatch godoc
// @Summary Complete a match and apply team results
// @Description Final scores may be passed inline. Completing an already completed match is rejected, so counters apply exactly once.
// @Tags Matches
// @Accept json
// @Produce json
// @Param match_id path uint true "Match ID"
// @Param score body CompleteMatchRequest false "Final score override"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 409 {object} responses.ErrorResponse "Match is already completed"
// @Security ApiKeyAuth
// @Router /matches/{match_id}/complete [post]
func (mc *MatchController) CompleteMatch(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	var req CompleteMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}
	actor, ok := mc.actorFromContext(c)
	if !ok {
		return
	}

	m, err := mc.service.CompleteMatch(matchID, req.HomeScore, req.AwayScore, actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match completed", m)
}
