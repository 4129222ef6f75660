package handler

import (
	"net/http"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/dto"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/middleware"
	"github.com/Payphone-Digital/review-platform/internal/service"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService *service.RatingService
}

func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// Upsert records the caller's grade for a product
func (h *RatingHandler) Upsert(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "UpsertRating")

	var req dto.RatingRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	if req.IsActive != nil && !*req.IsActive {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest, "is_active must be true; use DELETE to deactivate a rating"))
		return
	}

	caller := middleware.CallerClaims(c)
	if req.UserID != caller.UserID && !caller.IsAdmin {
		logger.WarnWithContext(ctx, "Rating on behalf of another user denied").
			Uint("caller_id", caller.UserID).
			Uint("user_id", req.UserID).
			Log()
		respondError(c, constants.MsgForbidden, apperrors.ErrForbidden)
		return
	}

	response, err := h.ratingService.UpsertRating(ctx, req.UserID, req.ProductID, req.Grade)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to save rating").
			Uint("product_id", req.ProductID).
			Err(err).
			Log()
		respondError(c, "Failed to save rating", err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Deactivate soft-deletes a rating and recomputes the product average
func (h *RatingHandler) Deactivate(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "DeactivateRating")

	id, ok := pathID(ctx, c, "id")
	if !ok {
		return
	}

	caller := middleware.CallerClaims(c)
	response, err := h.ratingService.DeactivateRating(ctx, id, &caller)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to deactivate rating").
			Uint("rating_id", id).
			Err(err).
			Log()
		respondError(c, "Failed to deactivate rating", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetByID returns one rating, active or not
func (h *RatingHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetRating")

	id, ok := pathID(ctx, c, "id")
	if !ok {
		return
	}

	rating, err := h.ratingService.GetRating(ctx, id)
	if err != nil {
		respondError(c, "Failed to fetch rating", err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

// GetAll lists active ratings, optionally for one product
func (h *RatingHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListRatings")

	productID, ok := queryID(ctx, c, constants.QueryParamProductID)
	if !ok {
		return
	}
	params := constants.ParsePaginationParams(c)

	ratings, total, pages, err := h.ratingService.ListRatings(ctx, productID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, "Failed to fetch ratings", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, pages, ratings))
}
