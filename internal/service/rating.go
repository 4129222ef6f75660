package service

import (
	"context"
	"math"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/dto"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/model"
	"github.com/Payphone-Digital/review-platform/internal/repository"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/shopspring/decimal"
)

// ratingScale is the number of decimals kept for a product's average.
const ratingScale = 2

// ReviewInvalidator drops cached review views for a product.
type ReviewInvalidator interface {
	InvalidateProduct(ctx context.Context, productID uint) error
}

// RatingService owns the rating write path and the product average it
// maintains.
type RatingService struct {
	tx          repository.TransactionManager
	users       *repository.UserRepository
	products    *repository.ProductRepository
	ratings     *repository.RatingRepository
	invalidator ReviewInvalidator
}

func NewRatingService(
	tx repository.TransactionManager,
	users *repository.UserRepository,
	products *repository.ProductRepository,
	ratings *repository.RatingRepository,
	invalidator ReviewInvalidator,
) *RatingService {
	return &RatingService{
		tx:          tx,
		users:       users,
		products:    products,
		ratings:     ratings,
		invalidator: invalidator,
	}
}

// UpsertRating records the user's grade for a product, replacing the grade
// of an existing active rating, and recomputes the product average. The
// product row stays locked until the transaction commits.
func (s *RatingService) UpsertRating(ctx context.Context, userID, productID uint, grade int) (*dto.RatingResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "UpsertRating")

	logger.InfoWithContext(ctx, "Upserting rating").
		Uint("user_id", userID).
		Uint("product_id", productID).
		Int("grade", grade).
		Log()

	if grade < constants.MinGrade || grade > constants.MaxGrade {
		return nil, apperrors.ErrInvalidInput
	}

	var resp dto.RatingResponse
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.products.FindActiveForUpdate(txCtx, productID); err != nil {
			if repository.IsNotFound(err) {
				return apperrors.ErrProductNotFound
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		user, err := s.users.GetByID(txCtx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if !user.IsActive {
			return apperrors.ErrUserNotFound
		}

		rating, err := s.ratings.FindActive(txCtx, userID, productID)
		switch {
		case err == nil:
			if err := s.ratings.UpdateGrade(txCtx, rating.ID, grade); err != nil {
				return apperrors.WrapError(apperrors.ErrInternal, err)
			}
		case repository.IsNotFound(err):
			rating = &model.Rating{
				Grade:     grade,
				UserID:    userID,
				ProductID: productID,
				IsActive:  true,
			}
			if err := s.ratings.Create(txCtx, rating); err != nil {
				return apperrors.WrapError(apperrors.ErrInternal, err)
			}
		default:
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		avg, err := s.RecomputeAverage(txCtx, productID)
		if err != nil {
			return err
		}

		resp = dto.RatingResponse{RatingID: rating.ID, ProductRating: avg}
		return nil
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Rating upsert failed").
			Uint("user_id", userID).
			Uint("product_id", productID).
			String("reason", apperrors.GetErrorCode(err)).
			Err(err).
			Log()
		return nil, err
	}

	s.invalidate(ctx, productID)

	logger.InfoWithContext(ctx, "Rating stored").
		Uint("rating_id", resp.RatingID).
		Uint("product_id", productID).
		String("product_rating", resp.ProductRating.StringFixed(ratingScale)).
		Log()

	return &resp, nil
}

// RecomputeAverage recalculates and stores the mean grade of the product's
// active ratings. It must run inside the caller's transaction.
func (s *RatingService) RecomputeAverage(ctx context.Context, productID uint) (decimal.Decimal, error) {
	avg, err := s.ratings.AverageActive(ctx, productID)
	if err != nil {
		return decimal.Zero, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	avg = avg.Round(ratingScale)
	if err := s.products.UpdateRating(ctx, productID, avg); err != nil {
		if repository.IsNotFound(err) {
			return decimal.Zero, apperrors.ErrProductNotFound
		}
		return decimal.Zero, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return avg, nil
}

// DeactivateRating soft-deletes a rating and recomputes its product's
// average. Deactivating an inactive rating recomputes again and succeeds.
// A non-nil actor must own the rating or be an admin.
func (s *RatingService) DeactivateRating(ctx context.Context, ratingID uint, actor *Claims) (*dto.DeactivateRatingResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "DeactivateRating")

	logger.InfoWithContext(ctx, "Deactivating rating").
		Uint("rating_id", ratingID).
		Log()

	var resp dto.DeactivateRatingResponse
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		rating, err := s.ratings.GetByID(txCtx, ratingID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.ErrRatingNotFound
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		if actor != nil && !actor.IsAdmin && actor.UserID != rating.UserID {
			return apperrors.ErrForbidden
		}

		if _, err := s.products.LockForUpdate(txCtx, rating.ProductID); err != nil {
			if repository.IsNotFound(err) {
				return apperrors.ErrProductNotFound
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		if err := s.ratings.Deactivate(txCtx, rating.ID); err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		avg, err := s.RecomputeAverage(txCtx, rating.ProductID)
		if err != nil {
			return err
		}

		resp = dto.DeactivateRatingResponse{
			RatingID:      rating.ID,
			ProductID:     rating.ProductID,
			ProductRating: avg,
		}
		return nil
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Rating deactivation failed").
			Uint("rating_id", ratingID).
			String("reason", apperrors.GetErrorCode(err)).
			Err(err).
			Log()
		return nil, err
	}

	s.invalidate(ctx, resp.ProductID)

	return &resp, nil
}

// GetRating returns a rating by id, active or not.
func (s *RatingService) GetRating(ctx context.Context, id uint) (*dto.RatingDetailResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetRating")

	rating, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrRatingNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := toRatingDetail(*rating)
	return &resp, nil
}

// ListRatings lists active ratings, optionally for a single product.
func (s *RatingService) ListRatings(ctx context.Context, productID *uint, limit, offset int) ([]dto.RatingDetailResponse, int64, int, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListRatings")

	ratings, total, err := s.ratings.ListActive(ctx, productID, limit, offset)
	if err != nil {
		return nil, 0, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := make([]dto.RatingDetailResponse, 0, len(ratings))
	for _, r := range ratings {
		res = append(res, toRatingDetail(r))
	}

	return res, total, pageTotal(total, limit), nil
}

func (s *RatingService) invalidate(ctx context.Context, productID uint) {
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

func toRatingDetail(r model.Rating) dto.RatingDetailResponse {
	return dto.RatingDetailResponse{
		ID:        r.ID,
		Grade:     r.Grade,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func pageTotal(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
