package team

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// TeamRepository defines the interface for team data operations.
type TeamRepository interface {
	CreateTeam(team *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeamByName(name string) (*Team, error)
	GetAllTeams(page, limit int, filters map[string]interface{}) ([]Team, int64, error)
	GetTeamsByCoachID(coachID uint) ([]Team, error)
	UpdateTeam(team *Team) error
	DeleteTeam(id uint) error
	SetCoach(teamID uint, coachID *uint) error
	CountActivePlayers(teamID uint) (int64, error)

	WithTransaction(txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	var t Team
	if err := r.db.Preload("Coach.User").First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) GetTeamByName(name string) (*Team, error) {
	var t Team
	if err := r.db.Where("name = ?", name).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) GetAllTeams(page, limit int, filters map[string]interface{}) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{}).Preload("Coach.User")
	if name, ok := filters["name"]; ok {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name.(string))+"%")
	}
	if coachID, ok := filters["coach_id"]; ok {
		query = query.Where("coach_id = ?", coachID)
	}

	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

func (r *teamRepository) GetTeamsByCoachID(coachID uint) ([]Team, error) {
	var teams []Team
	if err := r.db.Where("coach_id = ?", coachID).Order("name asc").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepository) UpdateTeam(team *Team) error {
	return r.db.Save(team).Error
}

func (r *teamRepository) DeleteTeam(id uint) error {
	return r.db.Delete(&Team{}, id).Error
}

func (r *teamRepository) SetCoach(teamID uint, coachID *uint) error {
	return r.db.Model(&Team{}).Where("id = ?", teamID).Update("coach_id", coachID).Error
}

func (r *teamRepository) CountActivePlayers(teamID uint) (int64, error) {
	var count int64
	err := r.db.Table("team_players").
		Where("team_id = ? AND is_active = ? AND deleted_at IS NULL", teamID, true).
		Count(&count).Error
	return count, err
}

func (r *teamRepository) WithTransaction(txFunc func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&teamRepository{db: tx})
	})
}
