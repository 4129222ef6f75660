package handler

import (
	"net/http"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/middleware"
	"github.com/Payphone-Digital/review-platform/internal/service"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{userService: service}
}

func (h *UserHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetByID")

	id, ok := pathID(ctx, c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(ctx, id)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to fetch user").
			Uint("user_id", id).
			Err(err).
			Log()
		respondError(c, "Failed to fetch user", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetAll")
	params := constants.ParsePaginationParams(c)

	logger.DebugWithContext(ctx, "Get all users request").
		Int("page", params.Page).
		Int("limit", params.Limit).
		String("search", params.Search).
		Log()

	users, total, pages, err := h.userService.GetAll(ctx, params.Limit, params.Offset, params.Search)
	if err != nil {
		respondError(c, "Failed to fetch users", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, pages, users))
}

func (h *UserHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Delete")

	id, ok := pathID(ctx, c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(ctx, id, middleware.CallerClaims(c).UserID); err != nil {
		respondError(c, "Failed to delete user", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}
