package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/model"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"gorm.io/gorm"
)

// ProductReviewRecord is one active product with its active feedback and
// the number of active ratings behind its average.
type ProductReviewRecord struct {
	Product     model.Product
	Feedback    []model.Feedback
	RatingCount int64
}

// ReviewRepository composes read-only review views from products, ratings
// and feedback.
type ReviewRepository struct {
	ratings  *RatingRepository
	feedback *FeedbackRepository
	db       *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		ratings:  NewRatingRepository(db),
		feedback: NewFeedbackRepository(db),
		db:       db,
	}
}

// FindProductReviews loads active products (one when productID is set)
// together with their active feedback, ordered by product id.
func (r *ReviewRepository) FindProductReviews(ctx context.Context, productID *uint) ([]ProductReviewRecord, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "FindProductReviews")

	start := time.Now()
	var products []model.Product
	query := GetDB(ctx, r.db).Where("is_active = ?", true)
	if productID != nil {
		query = query.Where("id = ?", *productID)
	}
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to load products for review").
			Err(err).
			Log()
		return nil, err
	}

	if len(products) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	feedback, err := r.feedback.ListActiveByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	counts, err := r.ratings.CountActiveByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uint][]model.Feedback, len(products))
	for _, f := range feedback {
		byProduct[f.ProductID] = append(byProduct[f.ProductID], f)
	}

	records := make([]ProductReviewRecord, 0, len(products))
	for _, p := range products {
		records = append(records, ProductReviewRecord{
			Product:     p,
			Feedback:    byProduct[p.ID],
			RatingCount: counts[p.ID],
		})
	}

	logger.DebugWithContext(ctx, "Product reviews composed").
		Int("product_count", len(records)).
		Int("feedback_count", len(feedback)).
		Duration(time.Since(start)).
		Log()

	return records, nil
}
