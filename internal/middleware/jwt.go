package middleware

import (
	"net/http"
	"strings"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/service"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type JWTMiddleware struct {
	authService *service.AuthService
}

func NewJWTMiddleware(authService *service.AuthService) *JWTMiddleware {
	return &JWTMiddleware{
		authService: authService,
	}
}

// RequireAuth validates the bearer access token and stores the caller's
// identity on the gin and request contexts.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			logger.GetLogger().Warn("Missing or malformed Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse(constants.MsgUnauthorized, apperrors.ErrUnauthorized.Message))
			return
		}

		claims, err := m.authService.CurrentUser(c.Request.Context(), tokenString)
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("reason", apperrors.GetErrorCode(err)))
			c.AbortWithStatusJSON(apperrors.ToHTTPStatus(err),
				constants.BuildErrorResponse(constants.MsgUnauthorized, apperrors.GetErrorMessage(err)))
			return
		}

		c.Set(constants.GinKeyUserID, claims.UserID)
		c.Set(constants.GinKeyUsername, claims.Username)
		c.Set(constants.GinKeyIsAdmin, claims.IsAdmin)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), claims.UserID))

		logger.GetLogger().Debug("User authenticated successfully",
			zap.Uint("user_id", claims.UserID),
			zap.String("username", claims.Username),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin flag.
// It must run after RequireAuth.
func (m *JWTMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(constants.GinKeyIsAdmin) {
			logger.GetLogger().Warn("Admin access denied",
				zap.Uint("user_id", c.GetUint(constants.GinKeyUserID)),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.AbortWithStatusJSON(http.StatusForbidden,
				constants.BuildErrorResponse(constants.MsgForbidden, apperrors.ErrForbidden.Message))
			return
		}
		c.Next()
	}
}

// CallerClaims returns the identity stored by RequireAuth.
func CallerClaims(c *gin.Context) service.Claims {
	return service.Claims{
		Username: c.GetString(constants.GinKeyUsername),
		UserID:   c.GetUint(constants.GinKeyUserID),
		IsAdmin:  c.GetBool(constants.GinKeyIsAdmin),
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) {
		return "", false
	}
	return parts[1], true
}
