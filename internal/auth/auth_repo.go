package auth

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// AuthRepository defines the interface for refresh-token persistence.
type AuthRepository interface {
	SaveRefreshToken(rt *RefreshToken) error
	GetRefreshToken(tokenStr string) (*RefreshToken, error)
	RevokeRefreshToken(tokenStr string) error
	RevokeAllForUser(userID uint) error
}

type authRepository struct {
	db *gorm.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) SaveRefreshToken(rt *RefreshToken) error {
	return r.db.Create(rt).Error
}

func (r *authRepository) GetRefreshToken(tokenStr string) (*RefreshToken, error) {
	var rt RefreshToken
	err := r.db.Where("token = ? AND revoked = ? AND expires_at > ?", tokenStr, false, time.Now()).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *authRepository) RevokeRefreshToken(tokenStr string) error {
	return r.db.Model(&RefreshToken{}).Where("token = ?", tokenStr).Update("revoked", true).Error
}

func (r *authRepository) RevokeAllForUser(userID uint) error {
	return r.db.Model(&RefreshToken{}).Where("user_id = ?", userID).Update("revoked", true).Error
}
