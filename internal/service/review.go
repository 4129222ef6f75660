package service

import (
	"context"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/dto"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/model"
	"github.com/Payphone-Digital/review-platform/internal/repository"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
)

type ReviewService struct {
	reviews *repository.ReviewRepository
	cache   *CacheService
}

func NewReviewService(reviews *repository.ReviewRepository, cache *CacheService) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		cache:   cache,
	}
}

// GetProductReviews returns active products with their active feedback.
// A nil productID lists every active product.
func (s *ReviewService) GetProductReviews(ctx context.Context, productID *uint) ([]dto.ProductReview, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetProductReviews")

	key := ReviewKey(productID)
	if cached, ok := s.cache.GetReviews(ctx, key); ok {
		return cached, nil
	}
	version, cacheable := s.cache.Version(ctx, key)

	start := time.Now()
	records, err := s.reviews.FindProductReviews(ctx, productID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if len(records) == 0 {
		if productID != nil {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.ErrReviewNotFound
	}

	reviews := make([]dto.ProductReview, 0, len(records))
	for _, rec := range records {
		feedback := make([]dto.FeedbackResponse, 0, len(rec.Feedback))
		for _, f := range rec.Feedback {
			feedback = append(feedback, toFeedbackResponse(f))
		}
		reviews = append(reviews, dto.ProductReview{
			ID:          rec.Product.ID,
			Name:        rec.Product.Name,
			Description: rec.Product.Description,
			Price:       rec.Product.Price,
			Rating:      rec.Product.Rating,
			RatingCount: rec.RatingCount,
			Feedback:    feedback,
		})
	}

	if cacheable {
		if err := s.cache.SetReviews(ctx, key, version, reviews); err != nil {
			logger.WarnWithContext(ctx, "Failed to cache product reviews").
				String("cache_key", key).
				Err(err).
				Log()
		}
	}

	logger.InfoWithContext(ctx, "Product reviews composed").
		Int("product_count", len(reviews)).
		Duration(time.Since(start)).
		Log()

	return reviews, nil
}

func toFeedbackResponse(f model.Feedback) dto.FeedbackResponse {
	comment := f.Comment
	if comment == "" {
		comment = constants.DefaultComment
	}
	return dto.FeedbackResponse{
		ID:          f.ID,
		Comment:     comment,
		CommentDate: time.Time(f.CommentDate),
		UserID:      f.UserID,
		ProductID:   f.ProductID,
		RatingID:    f.RatingID,
	}
}
