package match

import (
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
)

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusPostponed  Status = "POSTPONED"
)

// Match is the 1:1 extension of a MATCH-type event. The away side is either a
// club team (AwayTeamID) or an external opponent named in free text, never a
// placeholder pointing back at the home team.
type Match struct {
	gorm.Model
	EventID          uint       `json:"event_id" gorm:"uniqueIndex;not null"`
	HomeTeamID       uint       `json:"home_team_id" gorm:"index;not null"`
	HomeTeam         team.Team  `json:"home_team" gorm:"foreignKey:HomeTeamID"`
	AwayTeamID       *uint      `json:"away_team_id,omitempty" gorm:"index"`
	AwayTeam         *team.Team `json:"away_team,omitempty" gorm:"foreignKey:AwayTeamID"`
	ExternalOpponent string     `json:"external_opponent,omitempty"`
	HomeScore        int        `json:"home_score" gorm:"default:0"`
	AwayScore        int        `json:"away_score" gorm:"default:0"`
	Status           Status     `json:"status" gorm:"index;default:'SCHEDULED'"`

	Stats []PlayerStat `json:"stats,omitempty" gorm:"foreignKey:MatchID"`
}

// OpponentOf resolves the display name of the side opposing the given team.
func (m *Match) OpponentOf(teamID uint) string {
	if m.HomeTeamID == teamID {
		if m.AwayTeamID != nil && m.AwayTeam != nil {
			return m.AwayTeam.Name
		}
		return m.ExternalOpponent
	}
	return m.HomeTeam.Name
}

// PlayerStat is one player's line for one match. TeamID snapshots the roster
// membership at the time the row was seeded; game logs and result derivation
// read the snapshot, not the player's current team.
type PlayerStat struct {
	gorm.Model
	MatchID  uint        `json:"match_id" gorm:"uniqueIndex:uidx_match_player_stat;index;not null"`
	PlayerID uint        `json:"player_id" gorm:"uniqueIndex:uidx_match_player_stat;index;not null"`
	Player   user.Player `json:"player" gorm:"foreignKey:PlayerID"`
	TeamID   uint        `json:"team_id" gorm:"index;not null"`

	Points        int `json:"points" gorm:"default:0"`
	Rebounds      int `json:"rebounds" gorm:"default:0"`
	Assists       int `json:"assists" gorm:"default:0"`
	Steals        int `json:"steals" gorm:"default:0"`
	Blocks        int `json:"blocks" gorm:"default:0"`
	Turnovers     int `json:"turnovers" gorm:"default:0"`
	MinutesPlayed int `json:"minutes_played" gorm:"default:0"`

	FieldGoalsMade         int `json:"field_goals_made" gorm:"default:0"`
	FieldGoalsAttempted    int `json:"field_goals_attempted" gorm:"default:0"`
	ThreePointersMade      int `json:"three_pointers_made" gorm:"default:0"`
	ThreePointersAttempted int `json:"three_pointers_attempted" gorm:"default:0"`
	FreeThrowsMade         int `json:"free_throws_made" gorm:"default:0"`
	FreeThrowsAttempted    int `json:"free_throws_attempted" gorm:"default:0"`
}

// Efficiency is the single-number per-match summary:
// points + rebounds + assists + steals + blocks - turnovers.
func (s *PlayerStat) Efficiency() int {
	return s.Points + s.Rebounds + s.Assists + s.Steals + s.Blocks - s.Turnovers
}
