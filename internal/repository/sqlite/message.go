package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

var _ repository.MessageRepository = (*DB)(nil)

const messageSelect = `
	SELECT m.id, m.sender_id, s.username, m.receiver_id, r.username,
	       COALESCE(m.subject, ''), m.content, m.is_read, m.created_at
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.receiver_id`

// CreateMessage stores a new unread message. An empty Subject is stored as NULL.
// A missing receiver (or sender) surfaces as apperror.ErrNotFound.
func (db *DB) CreateMessage(ctx context.Context, m *model.Message) error {
	m.CreatedAt = db.now().UTC()
	m.Read = false

	var subject sql.NullString
	if m.Subject != "" {
		subject = sql.NullString{String: m.Subject, Valid: true}
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO messages (sender_id, receiver_id, subject, content, is_read, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		m.SenderID, m.ReceiverID, subject, m.Body, formatTime(m.CreatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", m.ReceiverID)
		}
		return fmt.Errorf("sqlite: inserting message: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("sqlite: reading message id: %w", err)
	}
	return nil
}

func (db *DB) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	row := db.conn.QueryRowContext(ctx, messageSelect+` WHERE m.id = ?`, id)

	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("message", id)
		}
		return nil, fmt.Errorf("sqlite: getting message %d: %w", id, err)
	}
	return m, nil
}

// ListReceived returns the user's inbox, newest first.
func (db *DB) ListReceived(ctx context.Context, userID int64) ([]model.Message, error) {
	return db.queryMessages(ctx,
		messageSelect+` WHERE m.receiver_id = ? ORDER BY m.created_at DESC, m.id DESC`, userID)
}

// ListSent returns the user's outbox, newest first.
func (db *DB) ListSent(ctx context.Context, userID int64) ([]model.Message, error) {
	return db.queryMessages(ctx,
		messageSelect+` WHERE m.sender_id = ? ORDER BY m.created_at DESC, m.id DESC`, userID)
}

// MarkMessageRead flips is_read for the receiver only. The sender, a third
// party, a missing id and an already-read message all affect zero rows.
func (db *DB) MarkMessageRead(ctx context.Context, id, receiverID int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE messages SET is_read = 1 WHERE id = ? AND receiver_id = ? AND is_read = 0`,
		id, receiverID)
	if err != nil {
		return false, fmt.Errorf("sqlite: marking message %d read: %w", id, err)
	}
	return affected(res)
}

func (db *DB) CountUnreadMessages(ctx context.Context, userID int64) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND is_read = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting unread messages: %w", err)
	}
	return n, nil
}

func (db *DB) queryMessages(ctx context.Context, query string, args ...any) ([]model.Message, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing messages: %w", err)
	}
	defer rows.Close()

	msgs := []model.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning message: %w", err)
		}
		msgs = append(msgs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating messages: %w", err)
	}
	return msgs, nil
}

func scanMessage(s rowScanner) (*model.Message, error) {
	var (
		m    model.Message
		read int
	)
	err := s.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.ReceiverID, &m.ReceiverName,
		&m.Subject, &m.Body, &read, scanTime{&m.CreatedAt})
	if err != nil {
		return nil, err
	}
	m.Read = read != 0
	return &m, nil
}
