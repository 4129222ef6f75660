package repository

import (
	"context"

	"github.com/Payphone-Digital/review-platform/internal/model"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateFeedback")

	if err := GetDB(ctx, r.db).Create(feedback).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create feedback").
			Uint("user_id", feedback.UserID).
			Uint("product_id", feedback.ProductID).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Feedback created").
		Uint("feedback_id", feedback.ID).
		Log()

	return nil
}

func (r *FeedbackRepository) GetActiveByID(ctx context.Context, id uint) (*model.Feedback, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetFeedbackByID")

	var feedback model.Feedback
	if err := GetDB(ctx, r.db).Where("id = ? AND is_active = ?", id, true).First(&feedback).Error; err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to get feedback by ID").
				Uint("feedback_id", id).
				Err(err).
				Log()
		}
		return nil, err
	}

	return &feedback, nil
}

// ListActiveByProducts returns active feedback for active products, oldest
// first. A nil slice of ids means every product.
func (r *FeedbackRepository) ListActiveByProducts(ctx context.Context, productIDs []uint) ([]model.Feedback, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListFeedback")

	var feedback []model.Feedback
	query := GetDB(ctx, r.db).
		Joins("JOIN products ON products.id = feedback.product_id").
		Where("feedback.is_active = ? AND products.is_active = ?", true, true)
	if productIDs != nil {
		query = query.Where("feedback.product_id IN ?", productIDs)
	}

	if err := query.Order("feedback.id ASC").Find(&feedback).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to list feedback").
			Int("product_count", len(productIDs)).
			Err(err).
			Log()
		return nil, err
	}

	return feedback, nil
}

func (r *FeedbackRepository) Deactivate(ctx context.Context, id uint) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "DeactivateFeedback")

	result := GetDB(ctx, r.db).Model(&model.Feedback{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to deactivate feedback").
			Uint("feedback_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
