package service

import (
	"context"

	"github.com/Payphone-Digital/review-platform/internal/dto"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/model"
	"github.com/Payphone-Digital/review-platform/internal/repository"
	ctxutil "github.com/Payphone-Digital/review-platform/pkg/context"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
)

type UserService struct {
	repoUser *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repoUser: repo}
}

// GetByID returns an active user.
func (s *UserService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetByID")

	logger.InfoWithContext(ctx, "Get user by ID").
		Uint("user_id", id).
		Log()

	user, err := s.repoUser.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.ErrorWithContext(ctx, "Failed to get user by ID").
			Uint("user_id", id).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrUserNotFound
	}

	resp := toUserResponse(*user)
	return &resp, nil
}

func (s *UserService) GetAll(ctx context.Context, limit, offset int, search string) ([]dto.UserResponse, int64, int, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetAll")

	users, total, err := s.repoUser.GetAllActive(ctx, limit, offset, search)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get all users").
			Int("limit", limit).
			Int("offset", offset).
			Err(err).
			Log()
		return nil, 0, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u))
	}

	logger.InfoWithContext(ctx, "Users retrieved successfully").
		Int64("total", total).
		Int("returned_count", len(res)).
		Log()

	return res, total, pageTotal(total, limit), nil
}

// Delete deactivates a user. Callers cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id uint, actorID uint) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteUser")

	if id == actorID {
		logger.WarnWithContext(ctx, "Attempt to delete own account").
			Uint("user_id", id).
			Log()
		return apperrors.ErrSelfDeletion
	}

	if err := s.repoUser.Deactivate(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User deleted").
		Uint("user_id", id).
		Uint("deleted_by", actorID).
		Log()

	return nil
}

func toUserResponse(u model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
