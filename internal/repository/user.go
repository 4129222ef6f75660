package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/model"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user. Unique violations are returned untouched so callers
// can classify them with IsUniqueViolation.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateUser")

	start := time.Now()
	err := GetDB(ctx, r.db).Create(user).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("username", user.Username).
			Bool("unique_violation", IsUniqueViolation(err)).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "User created successfully").
		Uint("user_id", user.ID).
		String("username", user.Username).
		Duration(duration).
		Log()

	return nil
}

// GetByID returns the user regardless of its active flag.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetUserByID")

	logger.DebugWithContext(ctx, "Getting user by ID").
		Uint("user_id", id).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var user model.User
	result := GetDB(ctx, r.db).Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if !IsNotFound(result.Error) {
			logger.ErrorWithContext(ctx, "Failed to get user by ID").
				Uint("user_id", id).
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved successfully").
		Uint("user_id", id).
		String("username", user.Username).
		Duration(duration).
		Log()

	return &user, nil
}

// GetByUsername finds user by exact username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetUserByUsername")

	start := time.Now()
	var user model.User
	result := GetDB(ctx, r.db).Where("username = ?", username).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if !IsNotFound(result.Error) {
			logger.ErrorWithContext(ctx, "Failed to get user by username").
				String("username", username).
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved by username").
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

// ExistsByUsernameOrEmail checks both unique columns, active or not.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ExistsByUsernameOrEmail")

	var count int64
	err := GetDB(ctx, r.db).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to check user existence").
			String("username", username).
			Err(err).
			Log()
		return false, err
	}

	return count > 0, nil
}

// UpdateRefreshToken overwrites the stored refresh token. A nil token clears it.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID uint, token *string) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateRefreshToken")

	start := time.Now()
	result := GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update refresh token").
			Uint("user_id", userID).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Refresh token updated").
		Uint("user_id", userID).
		Bool("cleared", token == nil).
		Duration(duration).
		Log()

	return nil
}

// GetAllActive lists active users ordered by id.
func (r *UserRepository) GetAllActive(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetAllUsers")

	logger.DebugWithContext(ctx, "Getting all users").
		Int("limit", limit).
		Int("offset", offset).
		String("search", search).
		Log()

	start := time.Now()
	var users []model.User
	var total int64

	query := GetDB(ctx, r.db).Model(&model.User{}).Where("is_active = ?", true)

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count users").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch users").
			Int("limit", limit).
			Int("offset", offset).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.InfoWithContext(ctx, "Users retrieved successfully").
		Int64("total", total).
		Int("returned_count", len(users)).
		Duration(time.Since(start)).
		Log()

	return users, total, nil
}

// Deactivate soft-deletes an active user and clears its refresh token.
// Returns gorm.ErrRecordNotFound when no active user matched.
func (r *UserRepository) Deactivate(ctx context.Context, id uint) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "DeactivateUser")

	result := GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":     false,
			"refresh_token": nil,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to deactivate user").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User deactivated").
		Uint("user_id", id).
		Log()

	return nil
}
