package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is the login account shared by admins, teachers and students.
type UserModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName     string         `gorm:"size:50;not null;uniqueIndex:uq_users_user_name" json:"user_name"`
	FullName     string         `gorm:"size:150" json:"full_name"`
	Email        string         `gorm:"size:255;not null;uniqueIndex:uq_users_email" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	IsFirstLogin bool           `gorm:"not null;default:true" json:"is_first_login"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}
