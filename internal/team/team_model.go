package team

import (
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/user"
)

// Team represents a club team. The result counters are denormalized and are
// written only when a match completes; every read passes them through verbatim.
type Team struct {
	gorm.Model
	Name        string      `json:"name" gorm:"unique;not null"`
	Description string      `json:"description"`
	CoachID     *uint       `json:"coach_id,omitempty" gorm:"index"`
	Coach       *user.Coach `json:"coach,omitempty" gorm:"foreignKey:CoachID"`

	GamesPlayed   int `json:"games_played" gorm:"default:0"`
	Wins          int `json:"wins" gorm:"default:0"`
	Losses        int `json:"losses" gorm:"default:0"`
	Draws         int `json:"draws" gorm:"default:0"`
	PointsFor     int `json:"points_for" gorm:"default:0"`
	PointsAgainst int `json:"points_against" gorm:"default:0"`
}

// TeamSummary is the derived read model for a single team.
type TeamSummary struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CoachName     string `json:"coach_name,omitempty"`
	PlayersCount  int64  `json:"players_count"`
	GamesPlayed   int    `json:"games_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
}
