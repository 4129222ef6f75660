package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextMiddleware attaches request tracking values to the request context
// and bounds it with timeout.
func ContextMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		correlationID := c.GetHeader(constants.HeaderXCorrelationID)
		if correlationID == "" {
			correlationID = requestID
		}

		ctx := ctxutil.NewRequestContext(c.Request.Context(), requestID, correlationID, c.ClientIP())

		var cancel context.CancelFunc = func() {}
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, timeout)
		}
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Header(constants.HeaderXRequestID, requestID)
		c.Header(constants.HeaderXCorrelationID, correlationID)

		logger.DebugWithContext(ctx, "Request started").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			String("query", c.Request.URL.RawQuery).
			Log()

		c.Next()

		logger.InfoWithContext(ctx, "Request completed").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			Int("status_code", c.Writer.Status()).
			Int("response_size", c.Writer.Size()).
			Duration(ctxutil.GetDuration(ctx)).
			Log()
	}
}

// RequestTimeoutMiddleware rejects requests whose context is already done.
func RequestTimeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			logger.WarnWithContext(c.Request.Context(), "Request timeout before processing").Log()
			c.AbortWithStatusJSON(http.StatusRequestTimeout, gin.H{
				"message": "Request timeout",
			})
		default:
			c.Next()
		}
	}
}
