package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/metrics"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

// InteractionService owns likes and comments on pitches.
type InteractionService struct {
	pitches  repository.PitchRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	notifier *Notifier
	logger   *slog.Logger
}

func NewInteractionService(
	pitches repository.PitchRepository,
	likes repository.LikeRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	notifier *Notifier,
	logger *slog.Logger,
) *InteractionService {
	return &InteractionService{
		pitches:  pitches,
		likes:    likes,
		comments: comments,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// ToggleLike flips whether userID likes pitchID and returns the new state
// with a freshly counted total.
//
// ALGORITHM:
//  1. Try to delete the (pitch, user) row. If one was removed, the result is
//     "unliked" and nothing is emitted.
//  2. Otherwise INSERT. The UNIQUE (pitch_id, user_id) constraint decides
//     races: if a concurrent toggle inserted first, our insert fails with
//     ErrConflict, which means "already liked". We report liked=true and do
//     NOT notify, since the winning call already did.
//  3. Only the call whose insert succeeded notifies the author, and only
//     when the liker is not the author.
//
// Repeating a toggle flips the state again; that is intended.
func (s *InteractionService) ToggleLike(ctx context.Context, pitchID, userID int64) (*model.LikeResult, error) {
	pitch, err := s.pitches.GetPitch(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("service/interaction: %w", err)
	}

	var liked, inserted bool

	removed, err := s.likes.DeleteLike(ctx, pitchID, userID)
	if err != nil {
		return nil, fmt.Errorf("service/interaction: removing like: %w", err)
	}
	if !removed {
		err := s.likes.InsertLike(ctx, pitchID, userID)
		switch {
		case err == nil:
			liked, inserted = true, true
		case errors.Is(err, apperror.ErrConflict):
			liked = true
			metrics.LikeConflicts.Inc()
			s.logger.Debug("concurrent like resolved as already liked",
				slog.Int64("pitchID", pitchID),
				slog.Int64("userID", userID),
			)
		default:
			return nil, fmt.Errorf("service/interaction: adding like: %w", err)
		}
	}

	if inserted && userID != pitch.AuthorID {
		s.notifier.emit(ctx, likeNotification(pitch.AuthorID, s.actorName(ctx, userID), pitch))
	}

	count, err := s.likes.CountLikes(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("service/interaction: counting likes: %w", err)
	}

	metrics.RecordToggle(liked)
	s.logger.Info("like toggled",
		slog.Int64("pitchID", pitchID),
		slog.Int64("userID", userID),
		slog.Bool("liked", liked),
		slog.Int("likeCount", count),
	)

	return &model.LikeResult{Liked: liked, LikeCount: count}, nil
}

// AddComment stores a comment and notifies the pitch author unless they
// wrote it. A failed notification does not undo the comment.
func (s *InteractionService) AddComment(ctx context.Context, pitchID, userID int64, text string) (*model.Comment, error) {
	text, err := requireText("body", "comment text", text, MaxCommentLength)
	if err != nil {
		return nil, err
	}

	pitch, err := s.pitches.GetPitch(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("service/interaction: %w", err)
	}

	c := &model.Comment{PitchID: pitchID, UserID: userID, Body: text}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("service/interaction: creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.Int64("commentID", c.ID),
		slog.Int64("pitchID", pitchID),
		slog.Int64("userID", userID),
	)

	if userID != pitch.AuthorID {
		s.notifier.emit(ctx, commentNotification(pitch.AuthorID, c.AuthorName, pitch))
	}
	return c, nil
}

// DeleteComment removes a comment if requesterID wrote it.
//
// A missing comment and someone else's comment both return nil: the caller
// learns nothing about comments they do not own. The author check happens
// before the DELETE, and the DELETE is itself scoped to the author.
func (s *InteractionService) DeleteComment(ctx context.Context, commentID, requesterID int64) error {
	c, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service/interaction: loading comment: %w", err)
	}
	if c.UserID != requesterID {
		s.logger.Debug("comment delete ignored for non-author",
			slog.Int64("commentID", commentID),
			slog.Int64("requesterID", requesterID),
		)
		return nil
	}

	removed, err := s.comments.DeleteComment(ctx, commentID, requesterID)
	if err != nil {
		return fmt.Errorf("service/interaction: deleting comment: %w", err)
	}
	if removed {
		s.logger.Info("comment deleted",
			slog.Int64("commentID", commentID),
			slog.Int64("userID", requesterID),
		)
	}
	return nil
}

// ListComments returns a pitch's comments oldest first.
func (s *InteractionService) ListComments(ctx context.Context, pitchID int64) ([]model.Comment, error) {
	if _, err := s.pitches.GetPitch(ctx, pitchID); err != nil {
		return nil, fmt.Errorf("service/interaction: %w", err)
	}
	comments, err := s.comments.ListComments(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("service/interaction: listing comments: %w", err)
	}
	return comments, nil
}

// actorName is the display name used in notification text. A lookup failure
// only degrades the wording.
func (s *InteractionService) actorName(ctx context.Context, userID int64) string {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("could not resolve actor name",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return "Someone"
	}
	return u.Username
}
