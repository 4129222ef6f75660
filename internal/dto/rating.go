package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RatingRequest is the body of POST /rating. IsActive may be omitted; an
// explicit false is rejected.
type RatingRequest struct {
	Grade     int   `json:"grade" binding:"required,min=1,max=5"`
	UserID    uint  `json:"user_id" binding:"required"`
	ProductID uint  `json:"product_id" binding:"required"`
	IsActive  *bool `json:"is_active"`
}

type RatingResponse struct {
	RatingID      uint            `json:"rating_id"`
	ProductRating decimal.Decimal `json:"product_rating"`
}

type RatingDetailResponse struct {
	ID        uint      `json:"id"`
	Grade     int       `json:"grade"`
	UserID    uint      `json:"user_id"`
	ProductID uint      `json:"product_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DeactivateRatingResponse struct {
	RatingID      uint            `json:"rating_id"`
	ProductID     uint            `json:"product_id"`
	ProductRating decimal.Decimal `json:"product_rating"`
}
