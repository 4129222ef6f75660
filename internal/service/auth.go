package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Payphone-Digital/review-platform/config"
	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/dto"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/model"
	"github.com/Payphone-Digital/review-platform/internal/repository"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/Payphone-Digital/review-platform/pkg/password"
)

// AuthService authenticates users and manages their session tokens.
type AuthService struct {
	users      *repository.UserRepository
	tx         repository.TransactionManager
	tokens     *TokenService
	hasher     *password.Hasher
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	users *repository.UserRepository,
	tx repository.TransactionManager,
	tokens *TokenService,
	hasher *password.Hasher,
	cfg config.JWTConfig,
) *AuthService {
	return &AuthService{
		users:      users,
		tx:         tx,
		tokens:     tokens,
		hasher:     hasher,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// Login exchanges credentials for a short-lived access token. Unknown users,
// inactive users and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AccessTokenResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Login")

	logger.InfoWithContext(ctx, "Login attempt").
		String("username", req.Username).
		Log()

	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		logger.LogAuth(req.Username, "login", false)
		return nil, err
	}

	resp, err := s.accessToken(user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue access token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, err
	}

	logger.LogAuth(user.Username, "login", true)
	return resp, nil
}

// Register creates the user and its first refresh token in one transaction.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Register")

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if n := utf8.RuneCountInString(username); n < constants.MinUsernameLength || n > constants.MaxUsernameLength {
		return nil, apperrors.ErrInvalidInput
	}

	logger.InfoWithContext(ctx, "Registering new user").
		String("username", username).
		String("email", email).
		Log()

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			String("username", username).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	var refreshToken string
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		exists, err := s.users.ExistsByUsernameOrEmail(txCtx, username, email)
		if err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if exists {
			return apperrors.ErrUserExists
		}

		user := &model.User{
			Username:     username,
			Email:        email,
			PasswordHash: hashedPassword,
			IsActive:     true,
		}
		if err := s.users.Create(txCtx, user); err != nil {
			if repository.IsUniqueViolation(err) {
				return apperrors.WrapError(apperrors.ErrUserExists, err)
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		token, err := s.tokens.Issue(TokenRefresh, claimsFor(user), s.refreshTTL)
		if err != nil {
			return err
		}

		if err := s.users.UpdateRefreshToken(txCtx, user.ID, &token); err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		refreshToken = token
		return nil
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("username", username).
			String("reason", apperrors.GetErrorCode(err)).
			Err(err).
			Log()
		return nil, err
	}

	logger.InfoWithContext(ctx, "User registered successfully").
		String("username", username).
		Log()

	return &dto.RegisterResponse{RefreshToken: refreshToken}, nil
}

// Refresh issues a new access token for a refresh token that is still the
// one stored on the user's row. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AccessTokenResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Refresh")

	claims, err := s.tokens.Validate(TokenRefresh, refreshToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token rejected").
			String("reason", apperrors.GetErrorCode(err)).
			Log()
		return nil, unauthorizedToken(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !user.IsActive || user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		logger.WarnWithContext(ctx, "Refresh token does not match stored token").
			Uint("user_id", user.ID).
			Bool("active", user.IsActive).
			Log()
		return nil, apperrors.ErrInvalidToken
	}

	resp, err := s.accessToken(user)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Access token refreshed").
		Uint("user_id", user.ID).
		Log()

	return resp, nil
}

// CurrentUser resolves the identity embedded in an access token.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*Claims, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CurrentUser")

	claims, err := s.tokens.Validate(TokenAccess, accessToken)
	if err != nil {
		logger.DebugWithContext(ctx, "Access token rejected").
			String("reason", apperrors.GetErrorCode(err)).
			Log()
		return nil, unauthorizedToken(err)
	}

	return claims, nil
}

// Logout revokes the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithFunction(ctx, "service", "Logout")

	if err := s.users.UpdateRefreshToken(ctx, userID, nil); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out").
		Uint("user_id", userID).
		Log()

	return nil
}

// RotateRefreshToken re-authenticates the user and replaces the stored
// refresh token, invalidating the previous one.
func (s *AuthService) RotateRefreshToken(ctx context.Context, req *dto.LoginRequest) (*dto.RotateRefreshTokenResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "RotateRefreshToken")

	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		logger.LogAuth(req.Username, "rotate_refresh_token", false)
		return nil, err
	}

	token, err := s.tokens.Issue(TokenRefresh, claimsFor(user), s.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, &token); err != nil {
		logger.ErrorWithContext(ctx, "Failed to store rotated refresh token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(user.Username, "rotate_refresh_token", true)
	return &dto.RotateRefreshTokenResponse{RefreshToken: token}, nil
}

func (s *AuthService) authenticate(ctx context.Context, username, plaintext string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !user.IsActive || !s.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) accessToken(user *model.User) (*dto.AccessTokenResponse, error) {
	token, err := s.tokens.Issue(TokenAccess, claimsFor(user), s.accessTTL)
	if err != nil {
		return nil, err
	}

	return &dto.AccessTokenResponse{
		AccessToken: token,
		TokenType:   constants.TokenTypeBearer,
		ExpiresIn:   int(s.accessTTL.Seconds()),
	}, nil
}

func claimsFor(user *model.User) Claims {
	return Claims{
		Username: user.Username,
		UserID:   user.ID,
		IsAdmin:  user.IsAdmin,
	}
}

// unauthorizedToken collapses token failures into a generic invalid-token
// error. Expiry is the one cause that stays visible.
func unauthorizedToken(err error) error {
	if apperrors.KindOf(err) == apperrors.KindExpired {
		return err
	}
	return apperrors.WrapError(apperrors.ErrInvalidToken, err)
}
