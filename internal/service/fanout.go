package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/metrics"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

// Notifier is the only component that creates notifications. Users never
// create them directly; InteractionService and MessagingService call it
// after their own write has committed.
type Notifier struct {
	repo   repository.NotificationRepository
	logger *slog.Logger
}

func NewNotifier(repo repository.NotificationRepository, logger *slog.Logger) *Notifier {
	return &Notifier{repo: repo, logger: logger}
}

// Create persists one unread notification for n.UserID. It fails with
// ErrValidation for a malformed event and ErrNotFound if the target user
// does not exist; otherwise it succeeds.
func (f *Notifier) Create(ctx context.Context, n *model.Notification) error {
	if n.UserID <= 0 {
		return apperror.ValidationFailed("userId", "notification target is required")
	}
	if n.Type == "" {
		return apperror.ValidationFailed("type", "notification type is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return apperror.ValidationFailed("title", "notification title is required")
	}

	if err := f.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("service/notify: creating %s notification for user %d: %w", n.Type, n.UserID, err)
	}

	metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
	f.logger.Debug("notification created",
		slog.Int64("notificationID", n.ID),
		slog.Int64("userID", n.UserID),
		slog.String("type", string(n.Type)),
	)
	return nil
}

// emit is the best-effort form of Create used by the fan-out call sites.
//
// It runs on a context detached from the request's cancellation: the
// primary write has already committed, so a client that hangs up now must
// not cost the target their notification. Errors are logged, counted and
// swallowed.
func (f *Notifier) emit(ctx context.Context, n model.Notification) {
	if err := f.Create(context.WithoutCancel(ctx), &n); err != nil {
		metrics.FanoutFailures.WithLabelValues(string(n.Type)).Inc()
		f.logger.Error("notification fan-out failed",
			slog.Int64("userID", n.UserID),
			slog.String("type", string(n.Type)),
			slog.String("error", err.Error()),
		)
	}
}

func ref(id int64) *int64 {
	return &id
}

func likeNotification(authorID int64, actor string, pitch *model.Pitch) model.Notification {
	return model.Notification{
		UserID:      authorID,
		Type:        model.NotificationLike,
		Title:       "New like",
		Body:        fmt.Sprintf("%s liked your pitch %q", actor, pitch.Title),
		RelatedID:   ref(pitch.ID),
		RelatedType: model.RelatedPitch,
	}
}

func commentNotification(authorID int64, actor string, pitch *model.Pitch) model.Notification {
	return model.Notification{
		UserID:      authorID,
		Type:        model.NotificationComment,
		Title:       "New comment",
		Body:        fmt.Sprintf("%s commented on your pitch %q", actor, pitch.Title),
		RelatedID:   ref(pitch.ID),
		RelatedType: model.RelatedPitch,
	}
}

func messageNotification(msg *model.Message) model.Notification {
	body := fmt.Sprintf("%s sent you a message", msg.SenderName)
	if msg.Subject != "" {
		body += ": " + msg.Subject
	}
	return model.Notification{
		UserID:      msg.ReceiverID,
		Type:        model.NotificationMessage,
		Title:       "New message",
		Body:        body,
		RelatedID:   ref(msg.ID),
		RelatedType: model.RelatedMessage,
	}
}
