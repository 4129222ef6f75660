package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a reviewable catalog item. Rating caches the mean grade of its
// active ratings and is written only by the rating write path.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"column:name;size:255;not null;index"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null;default:0"`
	Rating      decimal.Decimal `gorm:"column:rating;type:decimal(10,2);not null;default:0"`
	IsActive    bool            `gorm:"column:is_active;default:true;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}
