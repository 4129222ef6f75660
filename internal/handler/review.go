package handler

import (
	"net/http"

	"github.com/Payphone-Digital/review-platform/internal/service"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// GetAll returns every active product with its feedback
func (h *ReviewHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetProductReviews")

	reviews, err := h.reviewService.GetProductReviews(ctx, nil)
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetByID returns one product's review as a single-element list
func (h *ReviewHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetProductReview")

	id, ok := pathID(ctx, c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetProductReviews(ctx, &id)
	if err != nil {
		respondError(c, "Failed to fetch review", err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
