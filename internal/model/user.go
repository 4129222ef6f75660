package model

import (
	"time"
)

// User is an account holder. Users are deactivated, never hard-deleted.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;size:50;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsActive     bool      `gorm:"column:is_active;default:true;not null"`
	IsAdmin      bool      `gorm:"column:is_admin;default:false;not null"`
	RefreshToken *string   `gorm:"column:refresh_token;default:null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}
