package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtsidehq/courtside/internal/activity"
	"github.com/courtsidehq/courtside/internal/common"
	"github.com/courtsidehq/courtside/internal/user"
	"github.com/courtsidehq/courtside/pkg/responses"
	"github.com/courtsidehq/courtside/pkg/validator"
	"gorm.io/gorm"
)

// TeamController handles team CRUD and coach assignment.
type TeamController struct {
	repo     TeamRepository
	userRepo user.UserRepository
	db       *gorm.DB
}

// NewTeamController creates a new team controller.
func NewTeamController(repo TeamRepository, userRepo user.UserRepository, db *gorm.DB) *TeamController {
	return &TeamController{repo: repo, userRepo: userRepo, db: db}
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description"`
	CoachID     *uint  `json:"coach_id"`
}

type UpdateTeamRequest struct {
	Name        string `json:"name" binding:"omitempty,min=2,max=100"`
	Description string `json:"description"`
}

type AssignCoachRequest struct {
	CoachID *uint `json:"coach_id"`
}

// resolveCoach returns the caller's coach row when the caller is a coach, nil
// for admins.
func (tc *TeamController) resolveCoach(c *gin.Context) (*user.Coach, bool) {
	role, _ := common.GetUserRoleFromContext(c)
	if user.Role(role) != user.RoleCoach {
		return nil, true
	}
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return nil, false
	}
	coach, err := tc.userRepo.GetCoachByUserID(userID)
	if err != nil || coach == nil {
		responses.Forbidden(c, "Coach profile not found")
		return nil, false
	}
	return coach, true
}

// ownsTeam rejects coaches touching a team they are not assigned to.
func ownsTeam(c *gin.Context, coach *user.Coach, t *Team) bool {
	if coach == nil {
		return true
	}
	if t.CoachID == nil || *t.CoachID != coach.ID {
		responses.Forbidden(c, "Coach does not own this team")
		return false
	}
	return true
}

// CreateTeam godoc
// @Summary Create a new team
// @Description A coach creating a team is assigned as its coach; admins may name any coach.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team data"
// @Success 201 {object} responses.SuccessResponse{data=Team}
// @Failure 409 {object} responses.ErrorResponse "Team name already taken"
// @Security ApiKeyAuth
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}

	existing, err := tc.repo.GetTeamByName(req.Name)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "Team name already taken")
		return
	}

	caller, ok := tc.resolveCoach(c)
	if !ok {
		return
	}

	coachID := req.CoachID
	if caller != nil {
		// A coach creating a team becomes its coach.
		coachID = &caller.ID
	} else if coachID != nil {
		coach, err := tc.userRepo.GetCoachByID(*coachID)
		if err != nil {
			responses.InternalServerError(c, "")
			return
		}
		if coach == nil {
			responses.NotFound(c, "Coach")
			return
		}
	}

	t := &Team{Name: req.Name, Description: req.Description, CoachID: coachID}
	if err := tc.repo.CreateTeam(t); err != nil {
		responses.InternalServerError(c, "Failed to create team: "+err.Error())
		return
	}

	actorID, _ := common.GetUserIDFromContext(c)
	_ = activity.Record(tc.db, "team.create", "team", t.ID, actorID)

	responses.SendSuccess(c, http.StatusCreated, "Team created successfully", t)
}

// GetAllTeams godoc
// @Summary List teams
// @Tags Teams
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param name query string false "Substring filter on team name"
// @Param coach_id query int false "Filter by coach"
// @Success 200 {object} responses.PaginatedResponse{data=[]Team}
// @Security ApiKeyAuth
// @Router /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filters := make(map[string]interface{})
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}
	if coachID := c.Query("coach_id"); coachID != "" {
		if id, err := strconv.ParseUint(coachID, 10, 32); err == nil {
			filters["coach_id"] = uint(id)
		}
	}

	teams, total, err := tc.repo.GetAllTeams(page, limit, filters)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve teams: "+err.Error())
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Teams retrieved successfully", teams, total, page, limit)
}

// GetTeamByID godoc
// @Summary Get a team by ID
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("team_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	t, err := tc.repo.GetTeamByID(uint(teamID))
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if t == nil {
		responses.NotFound(c, "Team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team retrieved successfully", t)
}

// GetTeamSummary godoc
// @Summary Get a team with derived roster size
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=TeamSummary}
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/summary [get]
func (tc *TeamController) GetTeamSummary(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("team_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	t, err := tc.repo.GetTeamByID(uint(teamID))
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if t == nil {
		responses.NotFound(c, "Team")
		return
	}

	count, err := tc.repo.CountActivePlayers(t.ID)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}

	summary := TeamSummary{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		PlayersCount:  count,
		GamesPlayed:   t.GamesPlayed,
		Wins:          t.Wins,
		Losses:        t.Losses,
		Draws:         t.Draws,
		PointsFor:     t.PointsFor,
		PointsAgainst: t.PointsAgainst,
	}
	if t.Coach != nil && t.Coach.User.ID != 0 {
		summary.CoachName = t.Coach.User.FullName()
	}
	responses.SendSuccess(c, http.StatusOK, "Team summary retrieved successfully", summary)
}

// UpdateTeam godoc
// @Summary Update team name or description
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param team body UpdateTeamRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Failure 409 {object} responses.ErrorResponse "Team name already taken"
// @Security ApiKeyAuth
// @Router /teams/{team_id} [put]
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("team_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}

	t, err := tc.repo.GetTeamByID(uint(teamID))
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if t == nil {
		responses.NotFound(c, "Team")
		return
	}

	caller, ok := tc.resolveCoach(c)
	if !ok || !ownsTeam(c, caller, t) {
		return
	}

	if req.Name != "" && req.Name != t.Name {
		existing, err := tc.repo.GetTeamByName(req.Name)
		if err != nil {
			responses.InternalServerError(c, "")
			return
		}
		if existing != nil {
			responses.SendError(c, http.StatusConflict, "Team name already taken")
			return
		}
		t.Name = req.Name
	}
	t.Description = req.Description

	if err := tc.repo.UpdateTeam(t); err != nil {
		responses.InternalServerError(c, "Failed to update team: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team updated successfully", t)
}

// AssignCoach godoc
// @Summary Assign or clear a team's coach
// @Description Passing a null coach_id detaches the current coach.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param coach body AssignCoachRequest true "Coach assignment"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Team or coach not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/coach [put]
func (tc *TeamController) AssignCoach(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("team_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	var req AssignCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload")
		return
	}

	t, err := tc.repo.GetTeamByID(uint(teamID))
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if t == nil {
		responses.NotFound(c, "Team")
		return
	}

	if req.CoachID != nil {
		coach, err := tc.userRepo.GetCoachByID(*req.CoachID)
		if err != nil {
			responses.InternalServerError(c, "")
			return
		}
		if coach == nil {
			responses.NotFound(c, "Coach")
			return
		}
	}

	if err := tc.repo.SetCoach(t.ID, req.CoachID); err != nil {
		responses.InternalServerError(c, "")
		return
	}

	actorID, _ := common.GetUserIDFromContext(c)
	_ = activity.Record(tc.db, "team.assign_coach", "team", t.ID, actorID)

	responses.SendSuccess(c, http.StatusOK, "Coach assignment updated", gin.H{"team_id": t.ID, "coach_id": req.CoachID})
}

// DeleteTeam godoc
// @Summary Delete a team
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Failure 409 {object} responses.ErrorResponse "Team still has active players"
// @Security ApiKeyAuth
// @Router /teams/{team_id} [delete]
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("team_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	t, err := tc.repo.GetTeamByID(uint(teamID))
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if t == nil {
		responses.NotFound(c, "Team")
		return
	}

	caller, ok := tc.resolveCoach(c)
	if !ok || !ownsTeam(c, caller, t) {
		return
	}

	count, err := tc.repo.CountActivePlayers(t.ID)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if count > 0 {
		responses.SendError(c, http.StatusConflict, "Team still has active players")
		return
	}

	if err := tc.repo.DeleteTeam(t.ID); err != nil {
		responses.InternalServerError(c, "")
		return
	}

	actorID, _ := common.GetUserIDFromContext(c)
	_ = activity.Record(tc.db, "team.delete", "team", t.ID, actorID)

	responses.SendSuccess(c, http.StatusOK, "Team deleted successfully", nil)
}
