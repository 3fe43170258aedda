package roster

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/activity"
	"github.com/courtsidehq/courtside/internal/apperr"
	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
)

// Actor identifies who is performing a roster mutation. CoachID is only set
// when Role is COACH.
type Actor struct {
	UserID  uint
	Role    user.Role
	CoachID uint
}

// RosterService is the single entry point for membership mutations. The
// presentation layer never toggles membership state directly; every write path
// runs here, inside one transaction, so the one-active-team invariant is
// enforced uniformly.
type RosterService struct {
	db *gorm.DB
}

// NewRosterService creates a new roster service.
func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{db: db}
}

// authorize verifies the actor may mutate the given team's roster. Coaches may
// only act on teams they own; players may not act at all.
func (s *RosterService) authorize(t *team.Team, actor Actor) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleCoach:
		if t.CoachID == nil || *t.CoachID != actor.CoachID {
			return apperr.Forbidden("coach does not own this team")
		}
		return nil
	default:
		return apperr.Forbidden("players cannot manage rosters")
	}
}

// translateDuplicate maps the partial unique index violation on active
// memberships to the same conflict the in-transaction guard raises. Two
// concurrent assigns can both pass the guard; the index catches the loser.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("player belongs to another team")
	}
	return err
}

func (s *RosterService) loadTeamAndPlayer(tx *gorm.DB, teamID, playerID uint) (*team.Team, *user.Player, error) {
	t, err := team.NewTeamRepository(tx).GetTeamByID(teamID)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, apperr.NotFound("team")
	}
	p, err := user.NewUserRepository(tx).GetPlayerByID(playerID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, apperr.NotFound("player")
	}
	return t, p, nil
}

// AssignPlayerToTeam adds a player to a team's roster, reusing the historical
// membership row when one exists. A coach is rejected with a conflict when the
// player is globally active and already active on another team; an admin moves
// the player instead, deactivating the other membership. Re-assigning a player
// already active on the same team is a no-op success. If the player's account
// was inactive it is reactivated as a side effect.
func (s *RosterService) AssignPlayerToTeam(teamID, playerID uint, actor Actor) (*TeamPlayer, error) {
	var result *TeamPlayer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, p, err := s.loadTeamAndPlayer(tx, teamID, playerID)
		if err != nil {
			return err
		}
		if err := s.authorize(t, actor); err != nil {
			return err
		}

		repo := NewRosterRepository(tx)
		current, err := repo.GetActiveMembershipByPlayer(playerID)
		if err != nil {
			return err
		}
		if current != nil {
			if current.TeamID == teamID {
				result = current
				return nil
			}
			if actor.Role == user.RoleCoach && p.User.IsActive() {
				return apperr.Conflict("player belongs to another team")
			}
			now := time.Now()
			current.IsActive = false
			current.LeaveDate = &now
			if err := repo.UpdateMembership(current); err != nil {
				return err
			}
		}

		existing, err := repo.GetMembership(teamID, playerID)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.IsActive = true
			existing.LeaveDate = nil
			if err := repo.UpdateMembership(existing); err != nil {
				return translateDuplicate(err)
			}
			result = existing
		} else {
			m := &TeamPlayer{
				TeamID:   teamID,
				PlayerID: playerID,
				IsActive: true,
				JoinedAt: time.Now(),
			}
			if err := repo.CreateMembership(m); err != nil {
				return translateDuplicate(err)
			}
			result = m
		}

		if !p.User.IsActive() {
			if err := user.NewUserRepository(tx).SetUserStatus(p.UserID, user.StatusActive); err != nil {
				return err
			}
		}

		return activity.Record(tx, "roster.assign", "team_player", result.ID, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemovePlayerFromTeam deactivates the membership and stamps the leave date.
// The row is kept so historical statistics remain attributable.
func (s *RosterService) RemovePlayerFromTeam(teamID, playerID uint, actor Actor) (*TeamPlayer, error) {
	var result *TeamPlayer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, _, err := s.loadTeamAndPlayer(tx, teamID, playerID)
		if err != nil {
			return err
		}
		if err := s.authorize(t, actor); err != nil {
			return err
		}

		repo := NewRosterRepository(tx)
		m, err := repo.GetMembership(teamID, playerID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperr.NotFound("membership")
		}

		if m.IsActive {
			now := time.Now()
			m.IsActive = false
			m.LeaveDate = &now
			if err := repo.UpdateMembership(m); err != nil {
				return err
			}
		}
		result = m
		return activity.Record(tx, "roster.remove", "team_player", m.ID, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetMembershipActive toggles a membership directly. Activation goes through
// the same exclusivity guard as assignment: a coach cannot activate a player
// who is active elsewhere, an admin deactivates the other membership first.
func (s *RosterService) SetMembershipActive(teamID, playerID uint, isActive bool, actor Actor) (*TeamPlayer, error) {
	var result *TeamPlayer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, _, err := s.loadTeamAndPlayer(tx, teamID, playerID)
		if err != nil {
			return err
		}
		if err := s.authorize(t, actor); err != nil {
			return err
		}

		repo := NewRosterRepository(tx)
		m, err := repo.GetMembership(teamID, playerID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperr.NotFound("membership")
		}

		if isActive && !m.IsActive {
			other, err := repo.GetActiveMembershipByPlayer(playerID)
			if err != nil {
				return err
			}
			if other != nil && other.TeamID != teamID {
				if actor.Role != user.RoleAdmin {
					return apperr.Conflict("player belongs to another team")
				}
				now := time.Now()
				other.IsActive = false
				other.LeaveDate = &now
				if err := repo.UpdateMembership(other); err != nil {
					return err
				}
			}
			m.IsActive = true
			m.LeaveDate = nil
		} else if !isActive && m.IsActive {
			now := time.Now()
			m.IsActive = false
			m.LeaveDate = &now
		}

		if err := repo.UpdateMembership(m); err != nil {
			return translateDuplicate(err)
		}
		result = m
		return activity.Record(tx, "roster.toggle", "team_player", m.ID, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteMembership hard-deletes the membership row. Meant for correcting an
// erroneous addition, not for normal departures.
func (s *RosterService) DeleteMembership(teamID, playerID uint, actor Actor) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		t, _, err := s.loadTeamAndPlayer(tx, teamID, playerID)
		if err != nil {
			return err
		}
		if err := s.authorize(t, actor); err != nil {
			return err
		}

		repo := NewRosterRepository(tx)
		m, err := repo.GetMembership(teamID, playerID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperr.NotFound("membership")
		}
		if err := repo.HardDeleteMembership(teamID, playerID); err != nil {
			return err
		}
		return activity.Record(tx, "roster.purge", "team_player", m.ID, actor.UserID)
	})
}

// ListRoster returns the team's membership rows joined to player identity.
func (s *RosterService) ListRoster(teamID uint, includeInactive bool) ([]RosterEntry, error) {
	t, err := team.NewTeamRepository(s.db).GetTeamByID(teamID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("team")
	}

	memberships, err := NewRosterRepository(s.db).ListByTeam(teamID, includeInactive)
	if err != nil {
		return nil, err
	}

	entries := make([]RosterEntry, 0, len(memberships))
	for _, m := range memberships {
		entries = append(entries, RosterEntry{
			MembershipID:   m.ID,
			PlayerID:       m.PlayerID,
			FirstName:      m.Player.User.FirstName,
			LastName:       m.Player.User.LastName,
			Email:          m.Player.User.Email,
			Position:       string(m.Player.Position),
			JerseyNumber:   m.Player.JerseyNumber,
			IsActiveInTeam: m.IsActive,
			GlobalStatus:   m.Player.User.Status,
			JoinedAt:       m.JoinedAt,
			LeaveDate:      m.LeaveDate,
		})
	}
	return entries, nil
}

// ListEligiblePlayers returns players with no membership history in the team.
func (s *RosterService) ListEligiblePlayers(excludeTeamID uint, searchTerm string) ([]user.Player, error) {
	t, err := team.NewTeamRepository(s.db).GetTeamByID(excludeTeamID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("team")
	}
	return NewRosterRepository(s.db).ListEligiblePlayers(excludeTeamID, searchTerm)
}
