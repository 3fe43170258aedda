package match

import (
	"errors"

	"gorm.io/gorm"
)

// MatchRepository defines the interface for match data operations.
type MatchRepository interface {
	CreateMatch(m *Match) error
	GetMatchByID(id uint) (*Match, error)
	GetMatchByEventID(eventID uint) (*Match, error)
	UpdateMatch(m *Match) error

	SeedStat(s *PlayerStat) error
	GetStat(matchID, playerID uint) (*PlayerStat, error)
	UpdateStat(s *PlayerStat) error
	ListStatsByMatch(matchID uint) ([]PlayerStat, error)
	ListCompletedStatsByPlayer(playerID uint) ([]PlayerStat, []Match, error)

	WithTransaction(txFunc func(MatchRepository) error) error
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new instance of MatchRepository.
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) CreateMatch(m *Match) error {
	return r.db.Create(m).Error
}

func (r *matchRepository) GetMatchByID(id uint) (*Match, error) {
	var m Match
	err := r.db.
		Preload("HomeTeam").
		Preload("AwayTeam").
		Preload("Stats.Player.User").
		First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) GetMatchByEventID(eventID uint) (*Match, error) {
	var m Match
	err := r.db.Preload("HomeTeam").Preload("AwayTeam").Where("event_id = ?", eventID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) UpdateMatch(m *Match) error {
	return r.db.Save(m).Error
}

func (r *matchRepository) SeedStat(s *PlayerStat) error {
	return r.db.Create(s).Error
}

func (r *matchRepository) GetStat(matchID, playerID uint) (*PlayerStat, error) {
	var s PlayerStat
	if err := r.db.Where("match_id = ? AND player_id = ?", matchID, playerID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *matchRepository) UpdateStat(s *PlayerStat) error {
	return r.db.Save(s).Error
}

func (r *matchRepository) ListStatsByMatch(matchID uint) ([]PlayerStat, error) {
	var stats []PlayerStat
	if err := r.db.Preload("Player.User").Where("match_id = ?", matchID).Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// ListCompletedStatsByPlayer returns the player's stat rows for COMPLETED
// matches along with the matches themselves, ordered oldest first. Only
// completed matches feed aggregate statistics.
func (r *matchRepository) ListCompletedStatsByPlayer(playerID uint) ([]PlayerStat, []Match, error) {
	var stats []PlayerStat
	err := r.db.
		Joins("JOIN matches ON matches.id = player_stats.match_id").
		Where("player_stats.player_id = ? AND matches.status = ?", playerID, StatusCompleted).
		Order("matches.created_at asc").
		Find(&stats).Error
	if err != nil {
		return nil, nil, err
	}

	matchIDs := make([]uint, 0, len(stats))
	for _, s := range stats {
		matchIDs = append(matchIDs, s.MatchID)
	}
	var matches []Match
	if len(matchIDs) > 0 {
		err = r.db.Preload("HomeTeam").Preload("AwayTeam").
			Where("id IN ?", matchIDs).
			Find(&matches).Error
		if err != nil {
			return nil, nil, err
		}
	}
	return stats, matches, nil
}

func (r *matchRepository) WithTransaction(txFunc func(MatchRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&matchRepository{db: tx})
	})
}
