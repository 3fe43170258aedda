package event

import (
	"time"

	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
)

type Type string

const (
	TypeTraining Type = "TRAINING"
	TypeMatch    Type = "MATCH"
	TypeMeeting  Type = "MEETING"
	TypeOther    Type = "OTHER"
)

func ValidType(t Type) bool {
	switch t {
	case TypeTraining, TypeMatch, TypeMeeting, TypeOther:
		return true
	}
	return false
}

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusPostponed  Status = "POSTPONED"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusPostponed:
		return true
	}
	return false
}

type Attendance string

const (
	AttendancePlanned  Attendance = "PLANNED"
	AttendanceAttended Attendance = "ATTENDED"
	AttendanceAbsent   Attendance = "ABSENT"
	AttendanceExcused  Attendance = "EXCUSED"
)

func ValidAttendance(a Attendance) bool {
	switch a {
	case AttendancePlanned, AttendanceAttended, AttendanceAbsent, AttendanceExcused:
		return true
	}
	return false
}

// Event is a training, match, meeting or other club appointment.
type Event struct {
	gorm.Model
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Type        Type      `json:"event_type" gorm:"index;not null"`
	StartTime   time.Time `json:"start_time" gorm:"index;not null"`
	EndTime     time.Time `json:"end_time" gorm:"not null"`
	Location    string    `json:"location"`
	Status      Status    `json:"status" gorm:"index;default:'SCHEDULED'"`
	CreatedByID uint      `json:"created_by_id" gorm:"index"`

	Teams   []EventTeam   `json:"teams,omitempty" gorm:"foreignKey:EventID"`
	Players []EventPlayer `json:"players,omitempty" gorm:"foreignKey:EventID"`
	Coaches []EventCoach  `json:"coaches,omitempty" gorm:"foreignKey:EventID"`
}

// EventTeam links an event to a participating team.
type EventTeam struct {
	gorm.Model
	EventID uint      `json:"event_id" gorm:"uniqueIndex:uidx_event_team;not null"`
	TeamID  uint      `json:"team_id" gorm:"uniqueIndex:uidx_event_team;not null"`
	Team    team.Team `json:"team" gorm:"foreignKey:TeamID"`
}

// EventPlayer is the roster snapshot taken at event creation. Attendance is
// the only mutable field, and only by the player it belongs to.
type EventPlayer struct {
	gorm.Model
	EventID    uint        `json:"event_id" gorm:"uniqueIndex:uidx_event_player;not null"`
	PlayerID   uint        `json:"player_id" gorm:"uniqueIndex:uidx_event_player;not null"`
	Player     user.Player `json:"player" gorm:"foreignKey:PlayerID"`
	TeamID     uint        `json:"team_id" gorm:"index"`
	Attendance Attendance  `json:"attendance" gorm:"default:'PLANNED'"`
}

// EventCoach links an event to the coaches of its teams.
type EventCoach struct {
	gorm.Model
	EventID uint       `json:"event_id" gorm:"uniqueIndex:uidx_event_coach;not null"`
	CoachID uint       `json:"coach_id" gorm:"uniqueIndex:uidx_event_coach;not null"`
	Coach   user.Coach `json:"coach" gorm:"foreignKey:CoachID"`
}
