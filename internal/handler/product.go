package handler

import (
	"net/http"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/dto"
	"github.com/Payphone-Digital/review-platform/internal/service"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "CreateProduct")

	var req dto.CreateProductRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	product, err := h.productService.Create(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to create product").
			String("name", req.Name).
			Err(err).
			Log()
		respondError(c, "Failed to create product", err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetProduct")

	id, ok := pathID(ctx, c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(ctx, id)
	if err != nil {
		respondError(c, "Failed to fetch product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListProducts")
	params := constants.ParsePaginationParams(c)

	products, total, pages, err := h.productService.GetAll(ctx, params.Limit, params.Offset, params.Search)
	if err != nil {
		respondError(c, "Failed to fetch products", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, pages, products))
}

func (h *ProductHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "UpdateProduct")

	id, ok := pathID(ctx, c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	product, err := h.productService.Update(ctx, id, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to update product").
			Uint("product_id", id).
			Err(err).
			Log()
		respondError(c, "Failed to update product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "DeleteProduct")

	id, ok := pathID(ctx, c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(ctx, id); err != nil {
		respondError(c, "Failed to delete product", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}
