package service

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/dto"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/model"
	"github.com/Payphone-Digital/review-platform/internal/repository"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"gorm.io/datatypes"
)

type FeedbackService struct {
	feedback    *repository.FeedbackRepository
	products    *repository.ProductRepository
	ratings     *repository.RatingRepository
	invalidator ReviewInvalidator
	now         func() time.Time
}

func NewFeedbackService(
	feedback *repository.FeedbackRepository,
	products *repository.ProductRepository,
	ratings *repository.RatingRepository,
	invalidator ReviewInvalidator,
) *FeedbackService {
	return &FeedbackService{
		feedback:    feedback,
		products:    products,
		ratings:     ratings,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// Create stores feedback from userID. When no rating id is given the
// caller's active rating for the product, if any, is linked.
func (s *FeedbackService) Create(ctx context.Context, userID uint, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateFeedback")

	if _, err := s.products.GetActiveByID(ctx, req.ProductID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	ratingID, err := s.resolveRating(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		comment = constants.DefaultComment
	}

	today := s.now().UTC()
	feedback := &model.Feedback{
		Comment:     comment,
		CommentDate: datatypes.Date(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)),
		IsActive:    true,
		UserID:      userID,
		ProductID:   req.ProductID,
		RatingID:    ratingID,
	}

	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Feedback created").
		Uint("feedback_id", feedback.ID).
		Uint("product_id", feedback.ProductID).
		Bool("linked_rating", ratingID != nil).
		Log()

	s.invalidate(ctx, feedback.ProductID)

	resp := toFeedbackResponse(*feedback)
	return &resp, nil
}

func (s *FeedbackService) resolveRating(ctx context.Context, userID uint, req *dto.CreateFeedbackRequest) (*uint, error) {
	if req.RatingID != nil {
		rating, err := s.ratings.GetByID(ctx, *req.RatingID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, apperrors.ErrRatingNotFound
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if !rating.IsActive || rating.UserID != userID || rating.ProductID != req.ProductID {
			return nil, apperrors.ErrInvalidInput
		}
		return &rating.ID, nil
	}

	rating, err := s.ratings.FindActive(ctx, userID, req.ProductID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return &rating.ID, nil
}

// ListByProduct returns the product's active feedback, oldest first.
func (s *FeedbackService) ListByProduct(ctx context.Context, productID uint) ([]dto.FeedbackResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListFeedback")

	if _, err := s.products.GetActiveByID(ctx, productID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	feedback, err := s.feedback.ListActiveByProducts(ctx, []uint{productID})
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := make([]dto.FeedbackResponse, 0, len(feedback))
	for _, f := range feedback {
		res = append(res, toFeedbackResponse(f))
	}
	return res, nil
}

// Delete soft-deletes feedback owned by actor, or any feedback for admins.
func (s *FeedbackService) Delete(ctx context.Context, id uint, actor Claims) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteFeedback")

	feedback, err := s.feedback.GetActiveByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrFeedbackNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !actor.IsAdmin && feedback.UserID != actor.UserID {
		return apperrors.ErrForbidden
	}

	if err := s.feedback.Deactivate(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrFeedbackNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Feedback deleted").
		Uint("feedback_id", id).
		Uint("deleted_by", actor.UserID).
		Log()

	s.invalidate(ctx, feedback.ProductID)
	return nil
}

func (s *FeedbackService) invalidate(ctx context.Context, productID uint) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateProduct(ctx, productID); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate review cache").
			Uint("product_id", productID).
			Err(err).
			Log()
	}
}
