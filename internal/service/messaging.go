package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/metrics"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

// MessagingService delivers direct messages between two users.
type MessagingService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	notifier *Notifier
	logger   *slog.Logger
}

func NewMessagingService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	notifier *Notifier,
	logger *slog.Logger,
) *MessagingService {
	return &MessagingService{
		messages: messages,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// Send stores an unread message and always notifies the receiver, including
// when a user messages themself.
func (s *MessagingService) Send(ctx context.Context, senderID, receiverID int64, subject, body string) (*model.Message, error) {
	body, err := requireText("body", "message body", body, MaxMessageLength)
	if err != nil {
		return nil, err
	}
	subject, err = optionalText("subject", "subject", subject, MaxSubjectLength)
	if err != nil {
		return nil, err
	}

	sender, err := s.users.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("service/messaging: sender: %w", err)
	}
	receiver, err := s.users.GetUserByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("service/messaging: receiver: %w", err)
	}

	msg := &model.Message{
		SenderID:     sender.ID,
		SenderName:   sender.Username,
		ReceiverID:   receiver.ID,
		ReceiverName: receiver.Username,
		Subject:      subject,
		Body:         body,
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("service/messaging: storing message: %w", err)
	}

	metrics.MessagesSent.Inc()
	s.logger.Info("message sent",
		slog.Int64("messageID", msg.ID),
		slog.Int64("senderID", senderID),
		slog.Int64("receiverID", receiverID),
	)

	s.notifier.emit(ctx, messageNotification(msg))
	return msg, nil
}

// MarkRead flips a message to read. Only the receiver can do that; every
// other caller, a missing id and an already-read message are no-ops.
func (s *MessagingService) MarkRead(ctx context.Context, messageID, requesterID int64) error {
	changed, err := s.messages.MarkMessageRead(ctx, messageID, requesterID)
	if err != nil {
		return fmt.Errorf("service/messaging: %w", err)
	}
	if changed {
		s.logger.Debug("message marked read",
			slog.Int64("messageID", messageID),
			slog.Int64("userID", requesterID),
		)
	}
	return nil
}

// ListForUser returns the user's inbox and outbox, each newest first.
func (s *MessagingService) ListForUser(ctx context.Context, userID int64) (*model.Mailbox, error) {
	var box model.Mailbox

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		box.Received, err = s.messages.ListReceived(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		box.Sent, err = s.messages.ListSent(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service/messaging: listing mailbox: %w", err)
	}
	return &box, nil
}

// Get returns one message to its sender or receiver. Anyone else gets
// ErrNotFound, the same answer as for an id that does not exist.
func (s *MessagingService) Get(ctx context.Context, messageID, requesterID int64) (*model.Message, error) {
	msg, err := s.messages.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/messaging: %w", err)
	}
	if msg.SenderID != requesterID && msg.ReceiverID != requesterID {
		return nil, apperror.NotFound("message", messageID)
	}
	return msg, nil
}
