package handler

import (
	"net/http"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/dto"
	"github.com/Payphone-Digital/review-platform/internal/middleware"
	"github.com/Payphone-Digital/review-platform/internal/service"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// Create stores a comment by the caller on a product
func (h *FeedbackHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "CreateFeedback")

	var req dto.CreateFeedbackRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	userID := middleware.CallerClaims(c).UserID
	feedback, err := h.feedbackService.Create(ctx, userID, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to create feedback").
			Uint("product_id", req.ProductID).
			Err(err).
			Log()
		respondError(c, "Failed to create feedback", err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// GetByProduct lists active feedback for the product in ?product_id
func (h *FeedbackHandler) GetByProduct(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListFeedback")

	productID, ok := queryID(ctx, c, constants.QueryParamProductID)
	if !ok {
		return
	}
	if productID == nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest, "product_id is required"))
		return
	}

	feedback, err := h.feedbackService.ListByProduct(ctx, *productID)
	if err != nil {
		respondError(c, "Failed to fetch feedback", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: feedback})
}

func (h *FeedbackHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "DeleteFeedback")

	id, ok := pathID(ctx, c, "id")
	if !ok {
		return
	}

	if err := h.feedbackService.Delete(ctx, id, middleware.CallerClaims(c)); err != nil {
		respondError(c, "Failed to delete feedback", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}
