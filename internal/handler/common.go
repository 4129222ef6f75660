package handler

import (
	"context"
	"strconv"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/Payphone-Digital/review-platform/pkg/validation"
	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into req and answers 400 with readable
// validation messages when it does not bind.
func bindJSON(ctx context.Context, c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.WarnWithContext(ctx, "Invalid request body").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(apperrors.ErrInvalidInput),
			constants.BuildErrorResponse(constants.MsgBadRequest, validation.Messages(err)))
		return false
	}
	return true
}

// pathID parses a positive numeric path parameter.
func pathID(ctx context.Context, c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		logger.WarnWithContext(ctx, "Invalid ID format").
			String("raw_id", raw).
			Log()
		c.JSON(apperrors.ToHTTPStatus(apperrors.ErrInvalidInput),
			constants.BuildErrorResponse("Invalid ID", raw+" is not a valid id"))
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric query parameter. A missing parameter
// yields nil.
func queryID(ctx context.Context, c *gin.Context, name string) (*uint, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		logger.WarnWithContext(ctx, "Invalid query parameter").
			String("param", name).
			String("value", raw).
			Log()
		c.JSON(apperrors.ToHTTPStatus(apperrors.ErrInvalidInput),
			constants.BuildErrorResponse(constants.MsgBadRequest, name+" must be a positive integer"))
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// respondError writes a domain error using its mapped status. Internal
// causes never reach the client.
func respondError(c *gin.Context, message string, err error) {
	c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(message, apperrors.GetErrorMessage(err)))
}
