package auth

import (
	"time"

	"gorm.io/gorm"
)

// RefreshToken stores an issued refresh token so it can be revoked and
// checked on rotation.
type RefreshToken struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked" gorm:"default:false"`
}

// RegisterRequest is the self-registration payload. Admin accounts are not
// self-serviceable; they are provisioned through the admin user endpoints.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"required,oneof=COACH PLAYER"`

	// Player profile fields, honored when Role is PLAYER.
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	HeightCM     int        `json:"height_cm,omitempty"`
	WeightKG     int        `json:"weight_kg,omitempty"`
	Position     string     `json:"position,omitempty"`
	JerseyNumber int        `json:"jersey_number,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
