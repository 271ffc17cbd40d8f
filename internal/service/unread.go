package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

// UnreadService answers "how many unread things does this user have" and
// handles the user's read/delete actions on their notifications.
//
// Counts are live COUNT(*) queries on every call. At higher traffic this
// would become an incremental counter kept in step by the writes.
type UnreadService struct {
	messages      repository.MessageRepository
	notifications repository.NotificationRepository
	logger        *slog.Logger
}

func NewUnreadService(
	messages repository.MessageRepository,
	notifications repository.NotificationRepository,
	logger *slog.Logger,
) *UnreadService {
	return &UnreadService{
		messages:      messages,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *UnreadService) UnreadMessageCount(ctx context.Context, userID int64) (int, error) {
	n, err := s.messages.CountUnreadMessages(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service/unread: %w", err)
	}
	return n, nil
}

func (s *UnreadService) UnreadNotificationCount(ctx context.Context, userID int64) (int, error) {
	n, err := s.notifications.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service/unread: %w", err)
	}
	return n, nil
}

// Counts is the per-request read model for the site header. Both counts are
// queried in parallel.
func (s *UnreadService) Counts(ctx context.Context, userID int64) (*model.UnreadCounts, error) {
	var c model.UnreadCounts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c.Messages, err = s.UnreadMessageCount(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		c.Notifications, err = s.UnreadNotificationCount(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListNotifications returns the user's notifications newest first.
func (s *UnreadService) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	list, err := s.notifications.ListNotifications(ctx, userID, unreadOnly, listOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("service/unread: %w", err)
	}
	return list, nil
}

// MarkNotificationRead is a no-op unless userID owns the notification.
func (s *UnreadService) MarkNotificationRead(ctx context.Context, id, userID int64) error {
	if _, err := s.notifications.MarkNotificationRead(ctx, id, userID); err != nil {
		return fmt.Errorf("service/unread: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead returns how many notifications changed state.
func (s *UnreadService) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.notifications.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service/unread: %w", err)
	}
	s.logger.Debug("notifications marked read",
		slog.Int64("userID", userID),
		slog.Int64("count", n),
	)
	return n, nil
}

// DeleteNotification is a no-op unless userID owns the notification.
func (s *UnreadService) DeleteNotification(ctx context.Context, id, userID int64) error {
	removed, err := s.notifications.DeleteNotification(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("service/unread: %w", err)
	}
	if removed {
		s.logger.Debug("notification deleted",
			slog.Int64("notificationID", id),
			slog.Int64("userID", userID),
		)
	}
	return nil
}
