package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

// AdminService backs the moderation screens. Every method re-reads the
// requester's role from the store, so a demotion takes effect on the next
// request without waiting for a token to expire.
type AdminService struct {
	users  repository.UserRepository
	stats  repository.StatsRepository
	logger *slog.Logger
}

func NewAdminService(users repository.UserRepository, stats repository.StatsRepository, logger *slog.Logger) *AdminService {
	return &AdminService{users: users, stats: stats, logger: logger}
}

func (s *AdminService) requireAdmin(ctx context.Context, requesterID int64) error {
	u, err := s.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("service/admin: loading requester: %w", err)
	}
	if !u.IsAdmin() {
		return apperror.Forbidden("admin role required")
	}
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context, requesterID int64, limit, offset int) ([]model.User, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx, listOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("service/admin: %w", err)
	}
	return users, nil
}

// SetRole changes another user's role.
func (s *AdminService) SetRole(ctx context.Context, requesterID, targetID int64, role model.Role) error {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return err
	}
	if !role.Valid() {
		return apperror.ValidationFailed("role", fmt.Sprintf("unknown role %q", role))
	}
	if err := s.users.UpdateUserRole(ctx, targetID, role); err != nil {
		return fmt.Errorf("service/admin: %w", err)
	}

	s.logger.Info("user role changed",
		slog.Int64("adminID", requesterID),
		slog.Int64("userID", targetID),
		slog.String("role", string(role)),
	)
	return nil
}

// DeleteUser removes an account and, by cascade, everything attached to it.
// Admins cannot delete their own account here.
func (s *AdminService) DeleteUser(ctx context.Context, requesterID, targetID int64) error {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return err
	}
	if requesterID == targetID {
		return apperror.ValidationFailed("id", "admins cannot delete their own account")
	}
	if err := s.users.DeleteUser(ctx, targetID); err != nil {
		return fmt.Errorf("service/admin: %w", err)
	}

	s.logger.Warn("user deleted",
		slog.Int64("adminID", requesterID),
		slog.Int64("userID", targetID),
	)
	return nil
}

func (s *AdminService) Stats(ctx context.Context, requesterID int64) (*model.Stats, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return nil, err
	}
	st, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/admin: %w", err)
	}
	return st, nil
}
