package model

import (
	"time"
)

// Rating is a user's grade for a product. At most one active rating exists
// per (user, product); see idx_ratings_user_product_active.
type Rating struct {
	ID        uint      `gorm:"primaryKey"`
	Grade     int       `gorm:"column:grade;not null"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
	ProductID uint      `gorm:"column:product_id;not null;index"`
	IsActive  bool      `gorm:"column:is_active;default:true;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}
