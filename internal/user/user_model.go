package user

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleCoach  Role = "COACH"
	RolePlayer Role = "PLAYER"
)

// Status replaces a bare active boolean so the lifecycle stays legible in
// history: accounts go ACTIVE -> INACTIVE and are never physically removed
// once referenced by roster or stat rows.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// User is the identity record shared by admins, coaches and players.
type User struct {
	gorm.Model
	Email      string `gorm:"unique;not null" json:"email"`
	Password   string `json:"-"`
	Role       Role   `gorm:"index;not null;default:'PLAYER'" json:"role"`
	Status     Status `gorm:"index;not null;default:'ACTIVE'" json:"status"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone,omitempty"`
	Avatar     []byte `gorm:"type:bytea" json:"-"`
	AvatarMime string `json:"avatar_mime,omitempty"`

	Coach  *Coach  `json:"coach,omitempty" gorm:"foreignKey:UserID"`
	Player *Player `json:"player,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Coach is the 1:1 extension of a COACH user.
type Coach struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`
}

type Position string

const (
	PositionPointGuard    Position = "POINT_GUARD"
	PositionShootingGuard Position = "SHOOTING_GUARD"
	PositionSmallForward  Position = "SMALL_FORWARD"
	PositionPowerForward  Position = "POWER_FORWARD"
	PositionCenter        Position = "CENTER"
)

// Player is the 1:1 extension of a PLAYER user.
type Player struct {
	gorm.Model
	UserID       uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"user"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	HeightCM     int        `json:"height_cm,omitempty"`
	WeightKG     int        `json:"weight_kg,omitempty"`
	Position     Position   `gorm:"index" json:"position,omitempty"`
	JerseyNumber int        `json:"jersey_number,omitempty"`
}

func ValidPosition(p Position) bool {
	switch p {
	case PositionPointGuard, PositionShootingGuard, PositionSmallForward, PositionPowerForward, PositionCenter, "":
		return true
	}
	return false
}
