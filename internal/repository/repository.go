// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage implements all of them on one *sqlite.DB;
// tests may substitute fakes for any single interface.
//
// Ownership-scoped mutations (mark read, delete) take the owner's id and
// report whether a row was changed. A false result is not an error: the
// caller decides whether "not yours" and "not there" should be silent.
package repository

import (
	"context"

	"github.com/sakif/pitchhub/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	// CreateUser returns apperror.ErrConflict if the username is taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context, opts ListOptions) ([]model.User, error)
	UpdateUserRole(ctx context.Context, id int64, role model.Role) error
	// DeleteUser cascades to everything the user owns or is targeted by.
	DeleteUser(ctx context.Context, id int64) error
}

type PitchRepository interface {
	CreatePitch(ctx context.Context, pitch *model.Pitch) error
	GetPitch(ctx context.Context, id int64) (*model.Pitch, error)
	// ListPitches returns newest first. An empty query matches everything.
	ListPitches(ctx context.Context, query string, opts ListOptions) ([]model.Pitch, error)
	ListPitchesByAuthor(ctx context.Context, authorID int64, opts ListOptions) ([]model.Pitch, error)
	DeletePitch(ctx context.Context, id int64) error
}

type LikeRepository interface {
	// InsertLike returns apperror.ErrConflict when the (pitch, user) pair
	// already has a row, including when a concurrent insert won the race.
	InsertLike(ctx context.Context, pitchID, userID int64) error
	DeleteLike(ctx context.Context, pitchID, userID int64) (bool, error)
	HasLiked(ctx context.Context, pitchID, userID int64) (bool, error)
	CountLikes(ctx context.Context, pitchID int64) (int, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, id int64) (*model.Comment, error)
	// ListComments returns oldest first.
	ListComments(ctx context.Context, pitchID int64) ([]model.Comment, error)
	DeleteComment(ctx context.Context, id, authorID int64) (bool, error)
	CountComments(ctx context.Context, pitchID int64) (int, error)
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *model.Message) error
	GetMessage(ctx context.Context, id int64) (*model.Message, error)
	ListReceived(ctx context.Context, userID int64) ([]model.Message, error)
	ListSent(ctx context.Context, userID int64) ([]model.Message, error)
	// MarkMessageRead flips is_read 0→1 only for the receiver.
	MarkMessageRead(ctx context.Context, id, receiverID int64) (bool, error)
	CountUnreadMessages(ctx context.Context, userID int64) (int, error)
}

type NotificationRepository interface {
	// CreateNotification returns apperror.ErrNotFound if the target user is gone.
	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, userID int64, unreadOnly bool, opts ListOptions) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID int64) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
	DeleteNotification(ctx context.Context, id, userID int64) (bool, error)
	CountUnreadNotifications(ctx context.Context, userID int64) (int, error)
}

type StatsRepository interface {
	Stats(ctx context.Context) (*model.Stats, error)
}
