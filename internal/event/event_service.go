package event

import (
	"time"

	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/activity"
	"github.com/courtsidehq/courtside/internal/apperr"
	"github.com/courtsidehq/courtside/internal/match"
	"github.com/courtsidehq/courtside/internal/roster"
	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
)

// Actor identifies who is performing an event mutation.
type Actor struct {
	UserID  uint
	Role    user.Role
	CoachID uint
}

// CreateEventInput is the validated payload for event creation.
type CreateEventInput struct {
	Title            string
	Description      string
	Type             Type
	StartTime        time.Time
	EndTime          time.Time
	Location         string
	TeamIDs          []uint
	AwayTeamID       *uint
	ExternalOpponent string
}

// EventService owns event creation and attendance. Creation fans out to the
// active roster of every named team in a single transaction: the membership
// snapshot is taken once, and later roster changes never touch it.
type EventService struct {
	db *gorm.DB
}

// NewEventService creates a new event service.
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent creates the event, its team/coach/player links and, for a match
// event, the match row plus a zero-initialized stat line per snapshot player.
// Everything is written or nothing is.
func (s *EventService) CreateEvent(input CreateEventInput, actor Actor) (*Event, error) {
	if !ValidType(input.Type) {
		return nil, apperr.Validation("unknown event type")
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, apperr.Validation("end time must be after start time")
	}
	if len(input.TeamIDs) == 0 {
		return nil, apperr.Validation("at least one team is required")
	}
	if actor.Role == user.RolePlayer {
		return nil, apperr.Forbidden("players cannot create events")
	}

	var created *Event
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teamRepo := team.NewTeamRepository(tx)

		teams := make([]*team.Team, 0, len(input.TeamIDs))
		coachOwnsOne := false
		for _, id := range input.TeamIDs {
			t, err := teamRepo.GetTeamByID(id)
			if err != nil {
				return err
			}
			if t == nil {
				return apperr.NotFound("team")
			}
			if t.CoachID != nil && *t.CoachID == actor.CoachID {
				coachOwnsOne = true
			}
			teams = append(teams, t)
		}
		if actor.Role == user.RoleCoach && !coachOwnsOne {
			return apperr.Forbidden("coach does not own any of the named teams")
		}

		repo := NewEventRepository(tx)
		e := &Event{
			Title:       input.Title,
			Description: input.Description,
			Type:        input.Type,
			StartTime:   input.StartTime,
			EndTime:     input.EndTime,
			Location:    input.Location,
			Status:      StatusScheduled,
			CreatedByID: actor.UserID,
		}
		if err := repo.CreateEvent(e); err != nil {
			return err
		}

		rosterRepo := roster.NewRosterRepository(tx)
		seenCoaches := map[uint]bool{}
		seenPlayers := map[uint]bool{}
		var eventPlayers []EventPlayer

		for _, t := range teams {
			if err := repo.CreateEventTeam(&EventTeam{EventID: e.ID, TeamID: t.ID}); err != nil {
				return err
			}
			if t.CoachID != nil && !seenCoaches[*t.CoachID] {
				seenCoaches[*t.CoachID] = true
				if err := repo.CreateEventCoach(&EventCoach{EventID: e.ID, CoachID: *t.CoachID}); err != nil {
					return err
				}
			}

			// Roster snapshot: active members at creation time only.
			members, err := rosterRepo.ListByTeam(t.ID, false)
			if err != nil {
				return err
			}
			for _, m := range members {
				if seenPlayers[m.PlayerID] {
					continue
				}
				seenPlayers[m.PlayerID] = true
				ep := EventPlayer{
					EventID:    e.ID,
					PlayerID:   m.PlayerID,
					TeamID:     t.ID,
					Attendance: AttendancePlanned,
				}
				if err := repo.CreateEventPlayer(&ep); err != nil {
					return err
				}
				eventPlayers = append(eventPlayers, ep)
			}
		}

		if input.Type == TypeMatch {
			if err := s.createMatch(tx, e, input, eventPlayers, teams); err != nil {
				return err
			}
		}

		if err := activity.Record(tx, "event.create", "event", e.ID, actor.UserID); err != nil {
			return err
		}

		full, err := repo.GetEventByID(e.ID)
		if err != nil {
			return err
		}
		created = full
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *EventService) createMatch(tx *gorm.DB, e *Event, input CreateEventInput, eventPlayers []EventPlayer, teams []*team.Team) error {
	homeID := input.TeamIDs[0]

	var awayID *uint
	switch {
	case input.AwayTeamID != nil:
		found := false
		for _, t := range teams {
			if t.ID == *input.AwayTeamID {
				found = true
				break
			}
		}
		if !found {
			return apperr.Validation("away team must be one of the event's teams")
		}
		if *input.AwayTeamID == homeID {
			return apperr.Validation("away team must differ from the home team")
		}
		awayID = input.AwayTeamID
	case len(input.TeamIDs) >= 2:
		id := input.TeamIDs[1]
		awayID = &id
	case input.ExternalOpponent == "":
		return apperr.Validation("a match needs an away team or an external opponent")
	}

	matchRepo := match.NewMatchRepository(tx)
	m := &match.Match{
		EventID:          e.ID,
		HomeTeamID:       homeID,
		AwayTeamID:       awayID,
		ExternalOpponent: input.ExternalOpponent,
		Status:           match.StatusScheduled,
	}
	if err := matchRepo.CreateMatch(m); err != nil {
		return err
	}

	// Seed a zero line per snapshot player, carrying the membership snapshot
	// so later transfers do not rewrite match history.
	for _, ep := range eventPlayers {
		stat := &match.PlayerStat{
			MatchID:  m.ID,
			PlayerID: ep.PlayerID,
			TeamID:   ep.TeamID,
		}
		if err := matchRepo.SeedStat(stat); err != nil {
			return err
		}
	}
	return nil
}

// UpdateAttendance records a player's self-reported attendance. Players can
// only touch their own row, and only when the event already links them.
func (s *EventService) UpdateAttendance(eventID, playerID uint, att Attendance, actorUserID uint) (*EventPlayer, error) {
	if !ValidAttendance(att) {
		return nil, apperr.Validation("unknown attendance status")
	}

	var result *EventPlayer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewEventRepository(tx)
		e, err := repo.GetEventByID(eventID)
		if err != nil {
			return err
		}
		if e == nil {
			return apperr.NotFound("event")
		}

		ep, err := repo.GetEventPlayer(eventID, playerID)
		if err != nil {
			return err
		}
		if ep == nil {
			return apperr.Forbidden("player is not linked to this event")
		}

		ep.Attendance = att
		if err := repo.UpdateEventPlayer(ep); err != nil {
			return err
		}
		result = ep
		return activity.Record(tx, "event.attendance", "event_player", ep.ID, actorUserID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus moves an event between schedule states. Admins may touch any
// event, coaches only events involving a team they own.
func (s *EventService) UpdateStatus(eventID uint, status Status, actor Actor) (*Event, error) {
	if !ValidStatus(status) {
		return nil, apperr.Validation("unknown event status")
	}

	var result *Event
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewEventRepository(tx)
		e, err := repo.GetEventByID(eventID)
		if err != nil {
			return err
		}
		if e == nil {
			return apperr.NotFound("event")
		}

		if actor.Role == user.RoleCoach {
			owns := false
			for _, et := range e.Teams {
				if et.Team.CoachID != nil && *et.Team.CoachID == actor.CoachID {
					owns = true
					break
				}
			}
			if !owns {
				return apperr.Forbidden("coach does not own any team in this event")
			}
		} else if actor.Role == user.RolePlayer {
			return apperr.Forbidden("players cannot change event status")
		}

		if err := repo.UpdateEventStatus(eventID, status); err != nil {
			return err
		}
		e.Status = status
		result = e
		return activity.Record(tx, "event.status", "event", e.ID, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
