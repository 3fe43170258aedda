package event

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// EventRepository defines the interface for event data operations.
type EventRepository interface {
	CreateEvent(e *Event) error
	GetEventByID(id uint) (*Event, error)
	UpdateEventStatus(id uint, status Status) error
	ListEvents(filter ListFilter) ([]Event, error)

	CreateEventTeam(et *EventTeam) error
	CreateEventPlayer(ep *EventPlayer) error
	CreateEventCoach(ec *EventCoach) error
	GetEventPlayer(eventID, playerID uint) (*EventPlayer, error)
	UpdateEventPlayer(ep *EventPlayer) error

	WithTransaction(txFunc func(EventRepository) error) error
}

// ListFilter narrows the event listing. Zero values mean "no constraint".
type ListFilter struct {
	From     *time.Time
	To       *time.Time
	Type     Type
	TeamIDs  []uint // events involving any of these teams
	PlayerID uint   // events this player is linked to
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) CreateEvent(e *Event) error {
	return r.db.Create(e).Error
}

func (r *eventRepository) GetEventByID(id uint) (*Event, error) {
	var e Event
	err := r.db.
		Preload("Teams.Team").
		Preload("Players.Player.User").
		Preload("Coaches.Coach.User").
		First(&e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) UpdateEventStatus(id uint, status Status) error {
	return r.db.Model(&Event{}).Where("id = ?", id).Update("status", status).Error
}

func (r *eventRepository) ListEvents(filter ListFilter) ([]Event, error) {
	var events []Event
	query := r.db.Model(&Event{}).Preload("Teams.Team").Distinct("events.*")

	if filter.From != nil {
		query = query.Where("events.start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("events.start_time < ?", *filter.To)
	}
	if filter.Type != "" {
		query = query.Where("events.type = ?", filter.Type)
	}
	if len(filter.TeamIDs) > 0 {
		query = query.
			Joins("JOIN event_teams ON event_teams.event_id = events.id").
			Where("event_teams.team_id IN ?", filter.TeamIDs)
	}
	if filter.PlayerID != 0 {
		query = query.
			Joins("JOIN event_players ON event_players.event_id = events.id").
			Where("event_players.player_id = ?", filter.PlayerID)
	}

	if err := query.Order("events.start_time asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CreateEventTeam(et *EventTeam) error {
	return r.db.Create(et).Error
}

func (r *eventRepository) CreateEventPlayer(ep *EventPlayer) error {
	return r.db.Create(ep).Error
}

func (r *eventRepository) CreateEventCoach(ec *EventCoach) error {
	return r.db.Create(ec).Error
}

func (r *eventRepository) GetEventPlayer(eventID, playerID uint) (*EventPlayer, error) {
	var ep EventPlayer
	if err := r.db.Where("event_id = ? AND player_id = ?", eventID, playerID).First(&ep).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ep, nil
}

func (r *eventRepository) UpdateEventPlayer(ep *EventPlayer) error {
	return r.db.Save(ep).Error
}

func (r *eventRepository) WithTransaction(txFunc func(EventRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&eventRepository{db: tx})
	})
}
