package roster

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/user"
)

// RosterRepository defines the interface for membership data operations.
type RosterRepository interface {
	CreateMembership(m *TeamPlayer) error
	UpdateMembership(m *TeamPlayer) error
	HardDeleteMembership(teamID, playerID uint) error
	GetMembership(teamID, playerID uint) (*TeamPlayer, error)
	GetActiveMembershipByPlayer(playerID uint) (*TeamPlayer, error)
	ListByTeam(teamID uint, includeInactive bool) ([]TeamPlayer, error)
	ListEligiblePlayers(excludeTeamID uint, searchTerm string) ([]user.Player, error)
	CountActiveByTeam(teamID uint) (int64, error)

	WithTransaction(txFunc func(RosterRepository) error) error
}

type rosterRepository struct {
	db *gorm.DB
}

// NewRosterRepository creates a new instance of RosterRepository.
func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) CreateMembership(m *TeamPlayer) error {
	return r.db.Create(m).Error
}

func (r *rosterRepository) UpdateMembership(m *TeamPlayer) error {
	return r.db.Save(m).Error
}

// HardDeleteMembership removes the row entirely, bypassing the soft-delete
// column, so the (team, player) pair can be recreated from scratch.
func (r *rosterRepository) HardDeleteMembership(teamID, playerID uint) error {
	return r.db.Unscoped().
		Where("team_id = ? AND player_id = ?", teamID, playerID).
		Delete(&TeamPlayer{}).Error
}

func (r *rosterRepository) GetMembership(teamID, playerID uint) (*TeamPlayer, error) {
	var m TeamPlayer
	if err := r.db.Where("team_id = ? AND player_id = ?", teamID, playerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *rosterRepository) GetActiveMembershipByPlayer(playerID uint) (*TeamPlayer, error) {
	var m TeamPlayer
	if err := r.db.Where("player_id = ? AND is_active = ?", playerID, true).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *rosterRepository) ListByTeam(teamID uint, includeInactive bool) ([]TeamPlayer, error) {
	var memberships []TeamPlayer
	query := r.db.Preload("Player.User").Where("team_id = ?", teamID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("joined_at asc").Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListEligiblePlayers returns players with no membership row at all, active or
// inactive, in the given team. Used to populate "add player" pickers.
func (r *rosterRepository) ListEligiblePlayers(excludeTeamID uint, searchTerm string) ([]user.Player, error) {
	var players []user.Player
	query := r.db.Preload("User").
		Joins("JOIN users ON users.id = players.user_id").
		Where("players.id NOT IN (?)",
			r.db.Model(&TeamPlayer{}).Select("player_id").Where("team_id = ?", excludeTeamID))

	if searchTerm != "" {
		term := "%" + strings.ToLower(searchTerm) + "%"
		query = query.Where(
			"LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(users.email) LIKE ?",
			term, term, term,
		)
	}

	if err := query.Order("users.last_name asc").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *rosterRepository) CountActiveByTeam(teamID uint) (int64, error) {
	var count int64
	err := r.db.Model(&TeamPlayer{}).Where("team_id = ? AND is_active = ?", teamID, true).Count(&count).Error
	return count, err
}

func (r *rosterRepository) WithTransaction(txFunc func(RosterRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&rosterRepository{db: tx})
	})
}
