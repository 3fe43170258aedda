package stats

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/courtsidehq/courtside/internal/common"
	"github.com/courtsidehq/courtside/internal/user"
	"github.com/courtsidehq/courtside/pkg/responses"
)

// StatsController exposes the derived statistics surface.
type StatsController struct {
	service  *StatsService
	userRepo user.UserRepository
}

// NewStatsController creates a new stats controller.
func NewStatsController(service *StatsService, userRepo user.UserRepository) *StatsController {
	return &StatsController{service: service, userRepo: userRepo}
}

// PlayerStatsResponse bundles the overall aggregate with the game log.
type PlayerStatsResponse struct {
	Overall *OverallStats  `json:"overall"`
	GameLog []GameLogEntry `json:"game_log"`
}

func (sc *StatsController) playerStats(c *gin.Context, playerID uint) {
	overall, err := sc.service.PlayerOverallStats(playerID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	log, err := sc.service.PlayerGameLog(playerID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Player statistics retrieved successfully", PlayerStatsResponse{
		Overall: overall,
		GameLog: log,
	})
}

// GetPlayerStats godoc
// @Summary Get a player's aggregated statistics and game log
// @Description Players may only read their own; coaches and admins may read anyone's.
// @Tags Stats
// @Produce json
// @Param player_id path uint true "Player ID"
// @Success 200 {object} responses.SuccessResponse{data=PlayerStatsResponse}
// @Failure 404 {object} responses.ErrorResponse "Player not found"
// @Security ApiKeyAuth
// @Router /players/{player_id}/stats [get]
func (sc *StatsController) GetPlayerStats(c *gin.Context) {
	playerID, err := strconv.ParseUint(c.Param("player_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid player ID")
		return
	}

	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	role, _ := common.GetUserRoleFromContext(c)

	if user.Role(role) == user.RolePlayer {
		self, err := sc.userRepo.GetPlayerByUserID(userID)
		if err != nil || self == nil || self.ID != uint(playerID) {
			responses.Forbidden(c, "Players may only read their own statistics")
			return
		}
	}

	sc.playerStats(c, uint(playerID))
}

// GetOwnStats godoc
// @Summary Get the calling player's statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=PlayerStatsResponse}
// @Security ApiKeyAuth
// @Router /player/stats [get]
func (sc *StatsController) GetOwnStats(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	player, err := sc.userRepo.GetPlayerByUserID(userID)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if player == nil {
		responses.Forbidden(c, "Player profile not found")
		return
	}
	sc.playerStats(c, player.ID)
}

// GetTeamStats godoc
// @Summary Get derived stat rows per team
// @Tags Stats
// @Produce json
// @Param team_ids query string false "Comma-separated team IDs; empty means all teams"
// @Success 200 {object} responses.SuccessResponse{data=[]TeamStatRow}
// @Security ApiKeyAuth
// @Router /stats/teams [get]
func (sc *StatsController) GetTeamStats(c *gin.Context) {
	var teamIDs []uint
	if raw := c.Query("team_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				responses.BadRequest(c, "Invalid team_ids value")
				return
			}
			teamIDs = append(teamIDs, uint(id))
		}
	}

	rows, err := sc.service.TeamStats(teamIDs)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team statistics retrieved successfully", rows)
}

// GetDashboard godoc
// @Summary Get the role-scoped dashboard
// @Description Admins get club-wide counts, coaches their teams' slice, players their own schedule and team.
// @Tags Stats
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=Dashboard}
// @Security ApiKeyAuth
// @Router /dashboard [get]
func (sc *StatsController) GetDashboard(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	role, _ := common.GetUserRoleFromContext(c)

	scope := Scope{Role: user.Role(role)}
	switch scope.Role {
	case user.RoleCoach:
		coach, err := sc.userRepo.GetCoachByUserID(userID)
		if err != nil || coach == nil {
			responses.Forbidden(c, "Coach profile not found")
			return
		}
		scope.CoachID = coach.ID
	case user.RolePlayer:
		player, err := sc.userRepo.GetPlayerByUserID(userID)
		if err != nil || player == nil {
			responses.Forbidden(c, "Player profile not found")
			return
		}
		scope.PlayerID = player.ID
	}

	dash, err := sc.service.DashboardAggregates(scope)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Dashboard retrieved successfully", dash)
}
