package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role defines what a user is allowed to do on the platform
type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleRTAdmin Role = "RT_ADMIN"
)

// User represents a registered resident or neighborhood admin
type User struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `json:"name" gorm:"size:100;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password  string         `json:"-" gorm:"size:255"`
	Role      Role           `json:"role" gorm:"type:varchar(20);default:'CITIZEN';index"`
	Avatar    string         `json:"avatar" gorm:"size:500;default:''"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsAdmin reports whether the user holds the RT_ADMIN role
func (u *User) IsAdmin() bool {
	return u.Role == RoleRTAdmin
}

// UserResponse is the safe version of User for API responses
type UserResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	Avatar string    `json:"avatar"`
}

// ToResponse converts User to safe UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Avatar: u.Avatar,
	}
}

// Sender is the projection of a user attached to chat messages.
// Display fields only, never credentials.
type Sender struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Role   Role      `json:"role"`
	Avatar string    `json:"avatar"`
}

// ToSender converts User to its chat display projection
func (u *User) ToSender() Sender {
	return Sender{
		ID:     u.ID,
		Name:   u.Name,
		Role:   u.Role,
		Avatar: u.Avatar,
	}
}
