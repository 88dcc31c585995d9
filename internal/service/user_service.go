package service

import (
	"context"

	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/policy"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) List(ctx context.Context, filter repository.UserFilter, page repository.Pagination) (*Page[models.UserWithCounts], error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperror.Validation("role: Role must be USER or ADMIN")
	}

	users, total, err := s.userRepo.ListUsers(ctx, filter, page)
	if err != nil {
		logger.Log.Error("Failed to list users", zap.Error(err))
		return nil, err
	}
	return &Page[models.UserWithCounts]{Items: users, Total: total, Pagination: page}, nil
}

// Get returns a user profile to the user themself or to an admin.
func (s *UserService) Get(ctx context.Context, identity *policy.Identity, id string) (*models.User, error) {
	if err := policy.AuthorizeSelfOrAdmin(identity, id); err != nil {
		return nil, apperror.Forbidden("Not authorized to view this profile")
	}

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func (s *UserService) Stats(ctx context.Context, identity *policy.Identity, id string) (*repository.UserStats, error) {
	if err := policy.AuthorizeSelfOrAdmin(identity, id); err != nil {
		return nil, apperror.Forbidden("Not authorized to view these stats")
	}

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	return s.userRepo.Stats(ctx, id)
}

// UpdateRole changes another user's role. Admins cannot change their own.
func (s *UserService) UpdateRole(ctx context.Context, identity *policy.Identity, id string, role models.Role) (*models.User, error) {
	if err := policy.AuthorizeRole(identity, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperror.Validation("Invalid role")
	}
	if identity.UserID == id {
		return nil, apperror.Validation("Cannot change your own role")
	}

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	user.Role = role
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Log.Error("Failed to update user role", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("User role updated",
		zap.String("user_id", id),
		zap.String("role", string(role)),
		zap.String("admin_id", identity.UserID),
	)
	return user, nil
}

// Delete removes a user with all their blogs, projects and resumes.
func (s *UserService) Delete(ctx context.Context, identity *policy.Identity, id string) error {
	if err := policy.AuthorizeRole(identity, models.RoleAdmin); err != nil {
		return err
	}
	if identity.UserID == id {
		return apperror.Validation("Cannot delete your own account")
	}

	deleted, err := s.userRepo.DeleteUser(ctx, id)
	if err != nil {
		logger.Log.Error("Failed to delete user", zap.String("user_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return apperror.NotFound("User not found")
	}

	logger.Log.Info("User deleted",
		zap.String("user_id", id),
		zap.String("admin_id", identity.UserID),
	)
	return nil
}

func (s *UserService) Overview(ctx context.Context) (*repository.UserOverview, error) {
	return s.userRepo.Overview(ctx)
}
