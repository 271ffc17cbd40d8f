package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

var _ repository.NotificationRepository = (*DB)(nil)

// CreateNotification stores an unread notification. RelatedID/RelatedType are
// written as NULL when unset.
func (db *DB) CreateNotification(ctx context.Context, n *model.Notification) error {
	n.CreatedAt = db.now().UTC()
	n.Read = false

	var (
		relatedID   sql.NullInt64
		relatedType sql.NullString
	)
	if n.RelatedID != nil {
		relatedID = sql.NullInt64{Int64: *n.RelatedID, Valid: true}
	}
	if n.RelatedType != "" {
		relatedType = sql.NullString{String: string(n.RelatedType), Valid: true}
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO notifications (user_id, type, title, message, related_id, related_type, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		n.UserID, string(n.Type), n.Title, n.Body, relatedID, relatedType, formatTime(n.CreatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", n.UserID)
		}
		return fmt.Errorf("sqlite: inserting notification: %w", err)
	}
	if n.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("sqlite: reading notification id: %w", err)
	}
	return nil
}

// ListNotifications returns the user's notifications newest first.
func (db *DB) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, opts repository.ListOptions) ([]model.Notification, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)

	q := `SELECT id, user_id, type, title, message, related_id, related_type, is_read, created_at
	      FROM notifications WHERE user_id = ?`
	if unreadOnly {
		q += ` AND is_read = 0`
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := db.conn.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notifications: %w", err)
	}
	defer rows.Close()

	out := []model.Notification{}
	for rows.Next() {
		var (
			n           model.Notification
			typ         string
			relatedID   sql.NullInt64
			relatedType sql.NullString
			read        int
		)
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Body,
			&relatedID, &relatedType, &read, scanTime{&n.CreatedAt}); err != nil {
			return nil, fmt.Errorf("sqlite: scanning notification: %w", err)
		}
		n.Type = model.NotificationType(typ)
		if relatedID.Valid {
			id := relatedID.Int64
			n.RelatedID = &id
		}
		if relatedType.Valid {
			n.RelatedType = model.RelatedKind(relatedType.String)
		}
		n.Read = read != 0
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notifications: %w", err)
	}
	return out, nil
}

// MarkNotificationRead is scoped to the owner; anyone else affects zero rows.
func (db *DB) MarkNotificationRead(ctx context.Context, id, userID int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ? AND is_read = 0`,
		id, userID)
	if err != nil {
		return false, fmt.Errorf("sqlite: marking notification %d read: %w", id, err)
	}
	return affected(res)
}

// MarkAllNotificationsRead returns how many notifications flipped to read.
func (db *DB) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("sqlite: marking all notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return n, nil
}

func (db *DB) DeleteNotification(ctx context.Context, id, userID int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting notification %d: %w", id, err)
	}
	return affected(res)
}

func (db *DB) CountUnreadNotifications(ctx context.Context, userID int64) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting unread notifications: %w", err)
	}
	return n, nil
}
