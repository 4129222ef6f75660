package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/model"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// FindActive returns the active rating for a (user, product) pair.
func (r *RatingRepository) FindActive(ctx context.Context, userID, productID uint) (*model.Rating, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "FindActiveRating")

	var rating model.Rating
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND product_id = ? AND is_active = ?", userID, productID, true).
		First(&rating).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to find active rating").
				Uint("user_id", userID).
				Uint("product_id", productID).
				Err(err).
				Log()
		}
		return nil, err
	}

	return &rating, nil
}

func (r *RatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateRating")

	if err := GetDB(ctx, r.db).Create(rating).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create rating").
			Uint("user_id", rating.UserID).
			Uint("product_id", rating.ProductID).
			Bool("unique_violation", IsUniqueViolation(err)).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Rating created").
		Uint("rating_id", rating.ID).
		Int("grade", rating.Grade).
		Log()

	return nil
}

func (r *RatingRepository) UpdateGrade(ctx context.Context, id uint, grade int) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateRatingGrade")

	result := GetDB(ctx, r.db).Model(&model.Rating{}).
		Where("id = ?", id).
		Update("grade", grade)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update rating grade").
			Uint("rating_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetByID returns the rating whether active or not.
func (r *RatingRepository) GetByID(ctx context.Context, id uint) (*model.Rating, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetRatingByID")

	var rating model.Rating
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&rating).Error; err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to get rating by ID").
				Uint("rating_id", id).
				Err(err).
				Log()
		}
		return nil, err
	}

	return &rating, nil
}

// Deactivate flips is_active off. Already inactive rows are left as they are.
func (r *RatingRepository) Deactivate(ctx context.Context, id uint) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "DeactivateRating")

	err := GetDB(ctx, r.db).Model(&model.Rating{}).
		Where("id = ?", id).
		Update("is_active", false).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to deactivate rating").
			Uint("rating_id", id).
			Err(err).
			Log()
		return err
	}

	return nil
}

// AverageActive returns the mean grade of the product's active ratings, or
// zero when it has none.
func (r *RatingRepository) AverageActive(ctx context.Context, productID uint) (decimal.Decimal, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "AverageActiveRating")

	start := time.Now()
	var avg decimal.Decimal
	err := GetDB(ctx, r.db).Model(&model.Rating{}).
		Select("COALESCE(AVG(grade), 0)").
		Where("product_id = ? AND is_active = ?", productID, true).
		Row().
		Scan(&avg)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to compute average rating").
			Uint("product_id", productID).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return decimal.Zero, err
	}

	logger.DebugWithContext(ctx, "Average rating computed").
		Uint("product_id", productID).
		String("average", avg.String()).
		Duration(time.Since(start)).
		Log()

	return avg, nil
}

// CountActiveByProducts returns the number of active ratings per product.
func (r *RatingRepository) CountActiveByProducts(ctx context.Context, productIDs []uint) (map[uint]int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "CountActiveRatings")

	counts := make(map[uint]int64, len(productIDs))
	if len(productIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ProductID uint
		Total     int64
	}
	err := GetDB(ctx, r.db).Model(&model.Rating{}).
		Select("product_id, COUNT(*) AS total").
		Where("product_id IN ? AND is_active = ?", productIDs, true).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to count active ratings").
			Int("product_count", len(productIDs)).
			Err(err).
			Log()
		return nil, err
	}

	for _, row := range rows {
		counts[row.ProductID] = row.Total
	}

	return counts, nil
}

// ListActive lists active ratings, optionally for one product.
func (r *RatingRepository) ListActive(ctx context.Context, productID *uint, limit, offset int) ([]model.Rating, int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListRatings")

	var ratings []model.Rating
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Rating{}).Where("is_active = ?", true)
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count ratings").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&ratings).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch ratings").
			Err(err).
			Log()
		return nil, 0, err
	}

	return ratings, total, nil
}
