package roster

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtsidehq/courtside/internal/common"
	"github.com/courtsidehq/courtside/internal/user"
	"github.com/courtsidehq/courtside/pkg/responses"
	"github.com/courtsidehq/courtside/pkg/validator"
)

// RosterController translates HTTP requests into roster service calls.
type RosterController struct {
	service  *RosterService
	userRepo user.UserRepository
}

// NewRosterController creates a new roster controller.
func NewRosterController(service *RosterService, userRepo user.UserRepository) *RosterController {
	return &RosterController{service: service, userRepo: userRepo}
}

type AssignPlayerRequest struct {
	PlayerID uint `json:"player_id" binding:"required"`
}

type ToggleMembershipRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// actorFromContext builds the acting identity from the auth middleware's
// context keys, resolving the coach extension row when needed.
func (rc *RosterController) actorFromContext(c *gin.Context) (Actor, bool) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return Actor{}, false
	}
	role, _ := common.GetUserRoleFromContext(c)

	actor := Actor{UserID: userID, Role: user.Role(role)}
	if actor.Role == user.RoleCoach {
		coach, err := rc.userRepo.GetCoachByUserID(userID)
		if err != nil || coach == nil {
			responses.Forbidden(c, "Coach profile not found")
			return Actor{}, false
		}
		actor.CoachID = coach.ID
	}
	return actor, true
}

func parseTeamID(c *gin.Context) (uint, bool) {
	teamID, err := strconv.ParseUint(c.Param("team_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return 0, false
	}
	return uint(teamID), true
}

// AssignPlayer godoc
// @Summary Add a player to a team's roster
// @Description A player active on another team is a conflict for coaches; admins move the player instead.
// @Tags Rosters
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param player body AssignPlayerRequest true "Player to add"
// @Success 200 {object} responses.SuccessResponse{data=TeamPlayer}
// @Failure 403 {object} responses.ErrorResponse "Not this team's coach"
// @Failure 409 {object} responses.ErrorResponse "Player belongs to another team"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/players [post]
func (rc *RosterController) AssignPlayer(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}
	var req AssignPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}
	actor, ok := rc.actorFromContext(c)
	if !ok {
		return
	}

	m, err := rc.service.AssignPlayerToTeam(teamID, req.PlayerID, actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Player assigned to team", m)
}

// RemovePlayer godoc
// @Summary Remove a player from a team's roster
// @Description Soft removal: the membership row is kept with a leave date.
// @Tags Rosters
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param player_id path uint true "Player ID"
// @Success 200 {object} responses.SuccessResponse{data=TeamPlayer}
// @Failure 404 {object} responses.ErrorResponse "Membership not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/players/{player_id} [delete]
func (rc *RosterController) RemovePlayer(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}
	playerID, err := strconv.ParseUint(c.Param("player_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid player ID")
		return
	}
	actor, ok := rc.actorFromContext(c)
	if !ok {
		return
	}

	m, err := rc.service.RemovePlayerFromTeam(teamID, uint(playerID), actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Player removed from team", m)
}

// ToggleMembership godoc
// @Summary Activate or deactivate a membership in place
// @Tags Rosters
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param player_id path uint true "Player ID"
// @Param body body ToggleMembershipRequest true "Desired state"
// @Success 200 {object} responses.SuccessResponse{data=TeamPlayer}
// @Failure 409 {object} responses.ErrorResponse "Player belongs to another team"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/players/{player_id} [patch]
func (rc *RosterController) ToggleMembership(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}
	playerID, err := strconv.ParseUint(c.Param("player_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid player ID")
		return
	}
	var req ToggleMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}
	actor, ok := rc.actorFromContext(c)
	if !ok {
		return
	}

	m, err := rc.service.SetMembershipActive(teamID, uint(playerID), *req.IsActive, actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Membership updated", m)
}

// PurgeMembership godoc
// @Summary Hard-delete a membership row
// @Description For correcting a mistaken addition; historical departures should use the soft remove.
// @Tags Rosters
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param player_id path uint true "Player ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Membership not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/players/{player_id}/purge [delete]
func (rc *RosterController) PurgeMembership(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}
	playerID, err := strconv.ParseUint(c.Param("player_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid player ID")
		return
	}
	actor, ok := rc.actorFromContext(c)
	if !ok {
		return
	}

	if err := rc.service.DeleteMembership(teamID, uint(playerID), actor); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Membership deleted", nil)
}

// ListRoster godoc
// @Summary List a team's roster
// @Tags Rosters
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param include_inactive query bool false "Include past members" default(false)
// @Success 200 {object} responses.SuccessResponse{data=[]RosterEntry}
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/players [get]
func (rc *RosterController) ListRoster(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}
	includeInactive := c.DefaultQuery("include_inactive", "false") == "true"

	entries, err := rc.service.ListRoster(teamID, includeInactive)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Roster retrieved successfully", entries)
}

// ListEligiblePlayers godoc
// @Summary List players who never belonged to the team
// @Tags Rosters
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param search query string false "Substring search on player name or email"
// @Success 200 {object} responses.SuccessResponse{data=[]user.Player}
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/eligible-players [get]
func (rc *RosterController) ListEligiblePlayers(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	players, err := rc.service.ListEligiblePlayers(teamID, c.Query("search"))
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Eligible players retrieved successfully", players)
}
