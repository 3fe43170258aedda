package match

import (
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/activity"
	"github.com/courtsidehq/courtside/internal/apperr"
	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
)

// Actor identifies who is performing a match mutation.
type Actor struct {
	UserID  uint
	Role    user.Role
	CoachID uint
}

// MatchService owns score updates, stat-line updates and completion. Team
// result counters are written here and nowhere else.
type MatchService struct {
	db *gorm.DB
}

// NewMatchService creates a new match service.
func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{db: db}
}

// authorize allows admins and coaches of either participating team.
func (s *MatchService) authorize(m *Match, actor Actor) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleCoach:
		if homeCoach := m.HomeTeam.CoachID; homeCoach != nil && *homeCoach == actor.CoachID {
			return nil
		}
		if m.AwayTeam != nil && m.AwayTeam.CoachID != nil && *m.AwayTeam.CoachID == actor.CoachID {
			return nil
		}
		return apperr.Forbidden("coach is not assigned to either team in this match")
	default:
		return apperr.Forbidden("players cannot manage matches")
	}
}

// UpdateScore sets the running score on a match that has not completed.
func (s *MatchService) UpdateScore(matchID uint, homeScore, awayScore int, actor Actor) (*Match, error) {
	var result *Match
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewMatchRepository(tx)
		m, err := repo.GetMatchByID(matchID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperr.NotFound("match")
		}
		if err := s.authorize(m, actor); err != nil {
			return err
		}
		if m.Status == StatusCompleted {
			return apperr.Conflict("match is already completed")
		}
		if homeScore < 0 || awayScore < 0 {
			return apperr.Validation("scores must not be negative")
		}

		m.HomeScore = homeScore
		m.AwayScore = awayScore
		if m.Status == StatusScheduled {
			m.Status = StatusInProgress
		}
		if err := repo.UpdateMatch(m); err != nil {
			return err
		}
		result = m
		return activity.Record(tx, "match.score", "match", m.ID, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StatLine carries the mutable fields of a player's match line.
type StatLine struct {
	Points        int `json:"points" binding:"gte=0"`
	Rebounds      int `json:"rebounds" binding:"gte=0"`
	Assists       int `json:"assists" binding:"gte=0"`
	Steals        int `json:"steals" binding:"gte=0"`
	Blocks        int `json:"blocks" binding:"gte=0"`
	Turnovers     int `json:"turnovers" binding:"gte=0"`
	MinutesPlayed int `json:"minutes_played" binding:"gte=0"`

	FieldGoalsMade         int `json:"field_goals_made" binding:"gte=0"`
	FieldGoalsAttempted    int `json:"field_goals_attempted" binding:"gte=0"`
	ThreePointersMade      int `json:"three_pointers_made" binding:"gte=0"`
	ThreePointersAttempted int `json:"three_pointers_attempted" binding:"gte=0"`
	FreeThrowsMade         int `json:"free_throws_made" binding:"gte=0"`
	FreeThrowsAttempted    int `json:"free_throws_attempted" binding:"gte=0"`
}

func (l *StatLine) validate() error {
	if l.FieldGoalsMade > l.FieldGoalsAttempted {
		return apperr.Validation("field goals made exceeds attempts")
	}
	if l.ThreePointersMade > l.ThreePointersAttempted {
		return apperr.Validation("three pointers made exceeds attempts")
	}
	if l.FreeThrowsMade > l.FreeThrowsAttempted {
		return apperr.Validation("free throws made exceeds attempts")
	}
	return nil
}

// UpdateStatLine overwrites the seeded stat row for (match, player). Rows are
// seeded at event creation; a player without a row was not part of the match.
func (s *MatchService) UpdateStatLine(matchID, playerID uint, line StatLine, actor Actor) (*PlayerStat, error) {
	var result *PlayerStat
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewMatchRepository(tx)
		m, err := repo.GetMatchByID(matchID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperr.NotFound("match")
		}
		if err := s.authorize(m, actor); err != nil {
			return err
		}
		if m.Status == StatusCompleted {
			return apperr.Conflict("match is already completed")
		}
		if err := line.validate(); err != nil {
			return err
		}

		stat, err := repo.GetStat(matchID, playerID)
		if err != nil {
			return err
		}
		if stat == nil {
			return apperr.NotFound("player stat line")
		}

		stat.Points = line.Points
		stat.Rebounds = line.Rebounds
		stat.Assists = line.Assists
		stat.Steals = line.Steals
		stat.Blocks = line.Blocks
		stat.Turnovers = line.Turnovers
		stat.MinutesPlayed = line.MinutesPlayed
		stat.FieldGoalsMade = line.FieldGoalsMade
		stat.FieldGoalsAttempted = line.FieldGoalsAttempted
		stat.ThreePointersMade = line.ThreePointersMade
		stat.ThreePointersAttempted = line.ThreePointersAttempted
		stat.FreeThrowsMade = line.FreeThrowsMade
		stat.FreeThrowsAttempted = line.FreeThrowsAttempted

		if err := repo.UpdateStat(stat); err != nil {
			return err
		}
		result = stat
		return activity.Record(tx, "match.stat", "player_stat", stat.ID, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CompleteMatch transitions the match and its event to COMPLETED and adjusts
// both teams' result counters in the same transaction. When the opponent is
// external only the home team has a counter row to adjust. Completing twice
// is a conflict, so the counters are applied exactly once per match.
func (s *MatchService) CompleteMatch(matchID uint, homeScore, awayScore *int, actor Actor) (*Match, error) {
	var result *Match
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewMatchRepository(tx)
		m, err := repo.GetMatchByID(matchID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperr.NotFound("match")
		}
		if err := s.authorize(m, actor); err != nil {
			return err
		}
		if m.Status == StatusCompleted {
			return apperr.Conflict("match is already completed")
		}

		if homeScore != nil {
			if *homeScore < 0 {
				return apperr.Validation("scores must not be negative")
			}
			m.HomeScore = *homeScore
		}
		if awayScore != nil {
			if *awayScore < 0 {
				return apperr.Validation("scores must not be negative")
			}
			m.AwayScore = *awayScore
		}

		m.Status = StatusCompleted
		if err := repo.UpdateMatch(m); err != nil {
			return err
		}

		if err := applyResult(tx, m.HomeTeamID, m.HomeScore, m.AwayScore); err != nil {
			return err
		}
		if m.AwayTeamID != nil {
			if err := applyResult(tx, *m.AwayTeamID, m.AwayScore, m.HomeScore); err != nil {
				return err
			}
		}

		// The owning event mirrors the completion. Updated by table to avoid
		// coupling this package to the event package.
		if err := tx.Table("events").Where("id = ?", m.EventID).Update("status", "COMPLETED").Error; err != nil {
			return err
		}

		result = m
		return activity.Record(tx, "match.complete", "match", m.ID, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func applyResult(tx *gorm.DB, teamID uint, scored, conceded int) error {
	repo := team.NewTeamRepository(tx)
	t, err := repo.GetTeamByID(teamID)
	if err != nil {
		return err
	}
	if t == nil {
		return apperr.NotFound("team")
	}

	t.GamesPlayed++
	t.PointsFor += scored
	t.PointsAgainst += conceded
	switch {
	case scored > conceded:
		t.Wins++
	case scored < conceded:
		t.Losses++
	default:
		t.Draws++
	}
	return repo.UpdateTeam(t)
}
