package event

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/common"
	"github.com/courtsidehq/courtside/internal/match"
	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
	"github.com/courtsidehq/courtside/pkg/responses"
	"github.com/courtsidehq/courtside/pkg/validator"
)

// EventController handles the calendar surface.
type EventController struct {
	service  *EventService
	repo     EventRepository
	userRepo user.UserRepository
	teamRepo team.TeamRepository
	db       *gorm.DB
}

// NewEventController creates a new event controller.
func NewEventController(service *EventService, repo EventRepository, userRepo user.UserRepository, teamRepo team.TeamRepository, db *gorm.DB) *EventController {
	return &EventController{service: service, repo: repo, userRepo: userRepo, teamRepo: teamRepo, db: db}
}

type CreateEventRequest struct {
	Title            string    `json:"title" binding:"required,min=2,max=200"`
	Description      string    `json:"description"`
	Type             string    `json:"type" binding:"required,oneof=TRAINING MATCH MEETING OTHER"`
	StartTime        time.Time `json:"start_time" binding:"required"`
	EndTime          time.Time `json:"end_time" binding:"required"`
	Location         string    `json:"location"`
	TeamIDs          []uint    `json:"team_ids" binding:"required,min=1"`
	AwayTeamID       *uint     `json:"away_team_id"`
	ExternalOpponent string    `json:"external_opponent"`
}

type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED POSTPONED"`
}

type UpdateAttendanceRequest struct {
	Attendance string `json:"attendance" binding:"required,oneof=PLANNED ATTENDED ABSENT EXCUSED"`
}

func (ec *EventController) actorFromContext(c *gin.Context) (Actor, bool) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return Actor{}, false
	}
	role, _ := common.GetUserRoleFromContext(c)

	actor := Actor{UserID: userID, Role: user.Role(role)}
	if actor.Role == user.RoleCoach {
		coach, err := ec.userRepo.GetCoachByUserID(userID)
		if err != nil || coach == nil {
			responses.Forbidden(c, "Coach profile not found")
			return Actor{}, false
		}
		actor.CoachID = coach.ID
	}
	return actor, true
}

// CreateEvent godoc
// @Summary Create an event
// @Description Snapshots the active roster of every named team into the event. A MATCH event also creates its match record.
// @Tags Events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} responses.SuccessResponse{data=Event}
// @Failure 403 {object} responses.ErrorResponse "Coach does not own any of the named teams"
// @Security ApiKeyAuth
// @Router /events [post]
func (ec *EventController) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}
	actor, ok := ec.actorFromContext(c)
	if !ok {
		return
	}

	e, err := ec.service.CreateEvent(CreateEventInput{
		Title:            req.Title,
		Description:      req.Description,
		Type:             Type(req.Type),
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Location:         req.Location,
		TeamIDs:          req.TeamIDs,
		AwayTeamID:       req.AwayTeamID,
		ExternalOpponent: req.ExternalOpponent,
	}, actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Event created successfully", e)
}

// ListEvents godoc
// @Summary List events visible to the caller
// @Description Admins see everything, coaches the events of their teams, players the events they are linked to.
// @Tags Events
// @Produce json
// @Param from query string false "Start of window (RFC 3339)"
// @Param to query string false "End of window (RFC 3339)"
// @Param type query string false "Event type filter"
// @Success 200 {object} responses.SuccessResponse{data=[]Event}
// @Security ApiKeyAuth
// @Router /events [get]
func (ec *EventController) ListEvents(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	role, _ := common.GetUserRoleFromContext(c)

	var filter ListFilter
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			responses.BadRequest(c, "Invalid 'from' timestamp")
			return
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			responses.BadRequest(c, "Invalid 'to' timestamp")
			return
		}
		filter.To = &t
	}
	if typ := c.Query("type"); typ != "" {
		filter.Type = Type(typ)
	}

	switch user.Role(role) {
	case user.RoleAdmin:
		// no scoping
	case user.RoleCoach:
		coach, err := ec.userRepo.GetCoachByUserID(userID)
		if err != nil || coach == nil {
			responses.Forbidden(c, "Coach profile not found")
			return
		}
		teams, err := ec.teamRepo.GetTeamsByCoachID(coach.ID)
		if err != nil {
			responses.InternalServerError(c, "")
			return
		}
		if len(teams) == 0 {
			responses.SendSuccess(c, http.StatusOK, "Events retrieved successfully", []Event{})
			return
		}
		for _, t := range teams {
			filter.TeamIDs = append(filter.TeamIDs, t.ID)
		}
	default:
		player, err := ec.userRepo.GetPlayerByUserID(userID)
		if err != nil || player == nil {
			responses.Forbidden(c, "Player profile not found")
			return
		}
		filter.PlayerID = player.ID
	}

	events, err := ec.repo.ListEvents(filter)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve events: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Events retrieved successfully", events)
}

// EventDetail pairs an event with its match record, when it has one.
type EventDetail struct {
	Event *Event       `json:"event"`
	Match *match.Match `json:"match,omitempty"`
}

// GetEventByID godoc
// @Summary Get an event with its teams, players, coaches and match
// @Tags Events
// @Produce json
// @Param event_id path uint true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=EventDetail}
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Security ApiKeyAuth
// @Router /events/{event_id} [get]
func (ec *EventController) GetEventByID(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("event_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid event ID")
		return
	}

	e, err := ec.repo.GetEventByID(uint(eventID))
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if e == nil {
		responses.NotFound(c, "Event")
		return
	}

	detail := EventDetail{Event: e}
	if e.Type == TypeMatch {
		m, err := match.NewMatchRepository(ec.db).GetMatchByEventID(e.ID)
		if err != nil {
			responses.InternalServerError(c, "")
			return
		}
		detail.Match = m
	}
	responses.SendSuccess(c, http.StatusOK, "Event retrieved successfully", detail)
}

// UpdateStatus godoc
// @Summary Change an event's schedule status
// @Tags Events
// @Accept json
// @Produce json
// @Param event_id path uint true "Event ID"
// @Param status body UpdateEventStatusRequest true "New status"
// @Success 200 {object} responses.SuccessResponse{data=Event}
// @Failure 403 {object} responses.ErrorResponse "Coach does not own any team in this event"
// @Security ApiKeyAuth
// @Router /events/{event_id}/status [patch]
func (ec *EventController) UpdateStatus(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("event_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid event ID")
		return
	}
	var req UpdateEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}
	actor, ok := ec.actorFromContext(c)
	if !ok {
		return
	}

	e, err := ec.service.UpdateStatus(uint(eventID), Status(req.Status), actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Event status updated", e)
}

// UpdateAttendance godoc
// @Summary Record the caller's attendance for an event
// @Description Attendance is self-reported: a player can only write their own row, and only when the event links them.
// @Tags Events
// @Accept json
// @Produce json
// @Param event_id path uint true "Event ID"
// @Param attendance body UpdateAttendanceRequest true "Attendance status"
// @Success 200 {object} responses.SuccessResponse{data=EventPlayer}
// @Failure 403 {object} responses.ErrorResponse "Player is not linked to this event"
// @Security ApiKeyAuth
// @Router /events/{event_id}/attendance [put]
func (ec *EventController) UpdateAttendance(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("event_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid event ID")
		return
	}
	var req UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validator.ParseError(err)})
		return
	}

	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	player, err := ec.userRepo.GetPlayerByUserID(userID)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if player == nil {
		responses.Forbidden(c, "Player profile not found")
		return
	}

	ep, err := ec.service.UpdateAttendance(uint(eventID), player.ID, Attendance(req.Attendance), userID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Attendance updated", ep)
}
