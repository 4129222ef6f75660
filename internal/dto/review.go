package dto

import "github.com/shopspring/decimal"

// ProductReview groups a product with its active feedback.
type ProductReview struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Rating      decimal.Decimal    `json:"rating"`
	RatingCount int64              `json:"rating_count"`
	Feedback    []FeedbackResponse `json:"feedback"`
}
