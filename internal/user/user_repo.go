package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// UserRepository defines the interface for identity data operations.
type UserRepository interface {
	CreateUser(user *User) error
	GetUserByID(id uint) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetAllUsers(page, limit int, filters map[string]interface{}) ([]User, int64, error)
	UpdateUser(user *User) error
	SetUserStatus(id uint, status Status) error

	CreateCoach(coach *Coach) error
	GetCoachByID(id uint) (*Coach, error)
	GetCoachByUserID(userID uint) (*Coach, error)

	CreatePlayer(player *Player) error
	GetPlayerByID(id uint) (*Player, error)
	GetPlayerByUserID(userID uint) (*Player, error)
	UpdatePlayer(player *Player) error

	WithTransaction(txFunc func(UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetUserByID(id uint) (*User, error) {
	var u User
	if err := r.db.Preload("Coach").Preload("Player").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetUserByEmail(email string) (*User, error) {
	var u User
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetAllUsers(page, limit int, filters map[string]interface{}) ([]User, int64, error) {
	var users []User
	var total int64

	query := r.db.Model(&User{})
	if role, ok := filters["role"]; ok {
		query = query.Where("role = ?", role)
	}
	if status, ok := filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if search, ok := filters["search"]; ok {
		term := "%" + strings.ToLower(search.(string)) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			term, term, term,
		)
	}

	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) UpdateUser(user *User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) SetUserStatus(id uint, status Status) error {
	return r.db.Model(&User{}).Where("id = ?", id).Update("status", status).Error
}

func (r *userRepository) CreateCoach(coach *Coach) error {
	return r.db.Create(coach).Error
}

func (r *userRepository) GetCoachByID(id uint) (*Coach, error) {
	var c Coach
	if err := r.db.Preload("User").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *userRepository) GetCoachByUserID(userID uint) (*Coach, error) {
	var c Coach
	if err := r.db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *userRepository) CreatePlayer(player *Player) error {
	return r.db.Create(player).Error
}

func (r *userRepository) GetPlayerByID(id uint) (*Player, error) {
	var p Player
	if err := r.db.Preload("User").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) GetPlayerByUserID(userID uint) (*Player, error) {
	var p Player
	if err := r.db.Preload("User").Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) UpdatePlayer(player *Player) error {
	return r.db.Save(player).Error
}

func (r *userRepository) WithTransaction(txFunc func(UserRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&userRepository{db: tx})
	})
}
