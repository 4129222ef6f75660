package handler

import (
	"net/http"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/dto"
	"github.com/Payphone-Digital/review-platform/internal/middleware"
	"github.com/Payphone-Digital/review-platform/internal/service"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an account and returns its refresh token
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Register")

	var req dto.RegisterRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	response, err := h.authService.Register(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("username", req.Username).
			Err(err).
			Log()
		respondError(c, "Registration failed", err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login exchanges credentials for an access token
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Login")

	var req dto.LoginRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	logger.InfoWithContext(ctx, "User login attempt").
		String("username", req.Username).
		Log()

	response, err := h.authService.Login(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			String("username", req.Username).
			Err(err).
			Log()
		respondError(c, "Authentication failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Refresh issues a new access token for a stored refresh token
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Refresh")

	var req dto.RefreshTokenRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	response, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Token refresh failed").
			Err(err).
			Log()
		respondError(c, "Token refresh failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Me returns the identity carried by the caller's access token
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.CallerClaims(c)

	c.JSON(http.StatusOK, dto.CurrentUserResponse{
		Username: claims.Username,
		ID:       claims.UserID,
		IsAdmin:  claims.IsAdmin,
	})
}

// Logout revokes the caller's refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Logout")
	userID := middleware.CallerClaims(c).UserID

	if err := h.authService.Logout(ctx, userID); err != nil {
		logger.ErrorWithContext(ctx, "Failed to logout user").
			Uint("user_id", userID).
			Err(err).
			Log()
		respondError(c, "Logout failed", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Logout successful"))
}

// RotateRefreshToken re-authenticates and replaces the stored refresh token
func (h *AuthHandler) RotateRefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "RotateRefreshToken")

	var req dto.LoginRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	response, err := h.authService.RotateRefreshToken(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token rotation failed").
			String("username", req.Username).
			Err(err).
			Log()
		respondError(c, "Authentication failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}
