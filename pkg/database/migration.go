package database

import (
	"fmt"

	"github.com/Payphone-Digital/review-platform/internal/model"
	"gorm.io/gorm"
)

// activeRatingIndex keeps at most one active rating per user and product.
// Deactivated rows are excluded so a user may rate again later.
const activeRatingIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_ratings_user_product_active
	ON ratings (user_id, product_id) WHERE is_active`

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Rating{},
		&model.Feedback{},
	); err != nil {
		return err
	}

	if err := db.Exec(activeRatingIndex).Error; err != nil {
		return fmt.Errorf("failed to create active rating index: %w", err)
	}

	return nil
}
