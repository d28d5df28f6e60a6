package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is a user's authorization level.
type Role string

const (
	RoleUser       Role = "user"
	RoleMaintainer Role = "maintainer"
	RoleAdmin      Role = "admin"
)

// CanModerate reports whether the role may delete other users' comments.
func (r Role) CanModerate() bool {
	return r == RoleMaintainer || r == RoleAdmin
}

// User represents an account that authors comments.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"not null;default:user" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Actor is the authenticated principal attached to a request.
type Actor struct {
	ID   uint `json:"id"`
	Role Role `json:"role"`
}
