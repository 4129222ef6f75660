package dto

import "time"

type CreateFeedbackRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Comment   string `json:"comment" binding:"max=2000"`
	RatingID  *uint  `json:"rating_id"`
}

type FeedbackResponse struct {
	ID          uint      `json:"id"`
	Comment     string    `json:"comment"`
	CommentDate time.Time `json:"comment_date"`
	UserID      uint      `json:"user_id"`
	ProductID   uint      `json:"product_id"`
	RatingID    *uint     `json:"rating_id"`
}
