package roster

import (
	"time"

	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
)

// TeamPlayer is the time-scoped membership of a player in a team. A player
// keeps one row per team they ever belonged to; leaving deactivates the row
// instead of deleting it so stat history stays attributable.
//
// The partial unique index on player_id WHERE is_active makes the database
// reject a second simultaneously-active membership, closing the check-then-act
// race between concurrent assignments.
type TeamPlayer struct {
	gorm.Model
	TeamID   uint        `json:"team_id" gorm:"uniqueIndex:uidx_team_player;index;not null"`
	Team     team.Team   `json:"-" gorm:"foreignKey:TeamID"`
	PlayerID uint        `json:"player_id" gorm:"uniqueIndex:uidx_team_player;uniqueIndex:uidx_one_active_membership,where:is_active;not null"`
	Player   user.Player `json:"player" gorm:"foreignKey:PlayerID"`

	IsActive  bool       `json:"is_active" gorm:"index;default:true"`
	JoinedAt  time.Time  `json:"joined_at"`
	LeaveDate *time.Time `json:"leave_date,omitempty"`
}

// RosterEntry is a roster row joined to player identity, annotated with both
// the in-team flag and the player's independent account status.
type RosterEntry struct {
	MembershipID   uint        `json:"membership_id"`
	PlayerID       uint        `json:"player_id"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Email          string      `json:"email"`
	Position       string      `json:"position,omitempty"`
	JerseyNumber   int         `json:"jersey_number,omitempty"`
	IsActiveInTeam bool        `json:"is_active_in_team"`
	GlobalStatus   user.Status `json:"global_status"`
	JoinedAt       time.Time   `json:"joined_at"`
	LeaveDate      *time.Time  `json:"leave_date,omitempty"`
}
