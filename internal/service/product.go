package service

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/review-platform/internal/dto"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/model"
	"github.com/Payphone-Digital/review-platform/internal/repository"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/shopspring/decimal"
)

type ProductService struct {
	products    *repository.ProductRepository
	invalidator ReviewInvalidator
}

func NewProductService(products *repository.ProductRepository, invalidator ReviewInvalidator) *ProductService {
	return &ProductService{
		products:    products,
		invalidator: invalidator,
	}
}

func (s *ProductService) Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateProduct")

	if req.Price.IsNegative() {
		return nil, apperrors.ErrInvalidInput
	}

	product := &model.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price.Round(2),
		Rating:      decimal.Zero,
		IsActive:    true,
	}
	if product.Name == "" {
		return nil, apperrors.ErrInvalidInput
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Product created").
		Uint("product_id", product.ID).
		String("name", product.Name).
		Log()

	s.invalidate(ctx, product.ID)

	resp := toProductResponse(*product)
	return &resp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetProductByID")

	product, err := s.products.GetActiveByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := toProductResponse(*product)
	return &resp, nil
}

func (s *ProductService) GetAll(ctx context.Context, limit, offset int, search string) ([]dto.ProductResponse, int64, int, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetAllProducts")

	products, total, err := s.products.GetAllActive(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}

	return res, total, pageTotal(total, limit), nil
}

// Update changes name, description or price. The average rating is never
// written here.
func (s *ProductService) Update(ctx context.Context, id uint, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdateProduct")

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ErrInvalidInput
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperrors.ErrInvalidInput
		}
		updates["price"] = req.Price.Round(2)
	}

	if err := s.products.UpdateDetails(ctx, id, updates); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Product updated").
		Uint("product_id", id).
		Int("changed_fields", len(updates)).
		Log()

	s.invalidate(ctx, id)

	return s.GetByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteProduct")

	if err := s.products.Deactivate(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrProductNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, productID uint) {
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

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Rating:      p.Rating,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
