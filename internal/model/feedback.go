package model

import (
	"time"

	"gorm.io/datatypes"
)

type Feedback struct {
	ID          uint           `gorm:"primaryKey"`
	Comment     string         `gorm:"column:comment;type:text;not null;default:'No comment'"`
	CommentDate datatypes.Date `gorm:"column:comment_date;not null"`
	IsActive    bool           `gorm:"column:is_active;default:true;not null"`
	UserID      uint           `gorm:"column:user_id;not null;index"`
	ProductID   uint           `gorm:"column:product_id;not null;index"`
	RatingID    *uint          `gorm:"column:rating_id;default:null"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
