package handler

import (
	"net/http"

	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/service"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	cacheService *service.CacheService
}

func NewCacheHandler(cacheService *service.CacheService) *CacheHandler {
	return &CacheHandler{
		cacheService: cacheService,
	}
}

// ClearReviewsResponse reports how many cached review entries were dropped.
type ClearReviewsResponse struct {
	Message string `json:"message"`
	Enabled bool   `json:"enabled"`
	Deleted int    `json:"deleted"`
}

// ClearReviews drops every cached product review
func (h *CacheHandler) ClearReviews(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ClearReviews")

	deleted, err := h.cacheService.ClearReviews(ctx)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to clear review cache").
			Err(err).
			Log()
		respondError(c, "Failed to clear review cache", apperrors.WrapError(apperrors.ErrInternal, err))
		return
	}

	c.JSON(http.StatusOK, ClearReviewsResponse{
		Message: "Review cache cleared",
		Enabled: h.cacheService.Enabled(),
		Deleted: deleted,
	})
}
