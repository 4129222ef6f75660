package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/model"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateProduct")

	start := time.Now()
	if err := GetDB(ctx, r.db).Create(product).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create product").
			String("name", product.Name).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Product created successfully").
		Uint("product_id", product.ID).
		Duration(time.Since(start)).
		Log()

	return nil
}

// GetActiveByID returns an active product.
func (r *ProductRepository) GetActiveByID(ctx context.Context, id uint) (*model.Product, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetProductByID")

	var product model.Product
	err := GetDB(ctx, r.db).Where("id = ? AND is_active = ?", id, true).First(&product).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to get product by ID").
				Uint("product_id", id).
				Err(err).
				Log()
		}
		return nil, err
	}

	return &product, nil
}

// FindActiveForUpdate loads an active product and holds its row lock until
// the surrounding transaction ends. Writers to the product's rating
// aggregate serialise on this lock.
func (r *ProductRepository) FindActiveForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "FindProductForUpdate")

	start := time.Now()
	var product model.Product
	err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to lock product").
				Uint("product_id", id).
				Duration(time.Since(start)).
				Err(err).
				Log()
		}
		return nil, err
	}

	logger.DebugWithContext(ctx, "Product row locked").
		Uint("product_id", id).
		Duration(time.Since(start)).
		Log()

	return &product, nil
}

// LockForUpdate locks the product row whether or not it is active.
func (r *ProductRepository) LockForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "LockProduct")

	var product model.Product
	err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to lock product").
				Uint("product_id", id).
				Err(err).
				Log()
		}
		return nil, err
	}

	return &product, nil
}

func (r *ProductRepository) GetAllActive(ctx context.Context, limit, offset int, search string) ([]model.Product, int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetAllProducts")

	start := time.Now()
	var products []model.Product
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Product{}).Where("is_active = ?", true)
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count products").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch products").
			Int("limit", limit).
			Int("offset", offset).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Products retrieved successfully").
		Int64("total", total).
		Int("returned_count", len(products)).
		Duration(time.Since(start)).
		Log()

	return products, total, nil
}

// UpdateDetails writes the editable catalog fields. The rating column is
// left alone.
func (r *ProductRepository) UpdateDetails(ctx context.Context, id uint, updates map[string]interface{}) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateProduct")

	if len(updates) == 0 {
		return nil
	}

	result := GetDB(ctx, r.db).Model(&model.Product{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(updates)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update product").
			Uint("product_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpdateRating stores the recomputed average for a product.
func (r *ProductRepository) UpdateRating(ctx context.Context, id uint, rating decimal.Decimal) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateProductRating")

	result := GetDB(ctx, r.db).Model(&model.Product{}).
		Where("id = ?", id).
		Update("rating", rating)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update product rating").
			Uint("product_id", id).
			String("rating", rating.StringFixed(2)).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Product rating updated").
		Uint("product_id", id).
		String("rating", rating.StringFixed(2)).
		Log()

	return nil
}

func (r *ProductRepository) Deactivate(ctx context.Context, id uint) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "DeactivateProduct")

	result := GetDB(ctx, r.db).Model(&model.Product{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to deactivate product").
			Uint("product_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Product deactivated").
		Uint("product_id", id).
		Log()

	return nil
}
