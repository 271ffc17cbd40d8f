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

var _ repository.CommentRepository = (*DB)(nil)

const commentSelect = `
	SELECT c.id, c.pitch_id, c.user_id, u.username, c.content, c.created_at
	FROM comments c
	JOIN users u ON u.id = c.user_id`

// CreateComment fills in c.ID, c.CreatedAt and c.AuthorName.
func (db *DB) CreateComment(ctx context.Context, c *model.Comment) error {
	c.CreatedAt = db.now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (pitch_id, user_id, content, created_at) VALUES (?, ?, ?, ?)`,
		c.PitchID, c.UserID, c.Body, formatTime(c.CreatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("pitch", c.PitchID)
		}
		return fmt.Errorf("sqlite: inserting comment: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("sqlite: reading comment id: %w", err)
	}

	if err := db.conn.QueryRowContext(ctx,
		`SELECT username FROM users WHERE id = ?`, c.UserID,
	).Scan(&c.AuthorName); err != nil {
		return fmt.Errorf("sqlite: reading comment author: %w", err)
	}
	return nil
}

func (db *DB) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	row := db.conn.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id)

	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %d: %w", id, err)
	}
	return c, nil
}

// ListComments returns a pitch's comments oldest first, the order a thread reads in.
func (db *DB) ListComments(ctx context.Context, pitchID int64) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		commentSelect+` WHERE c.pitch_id = ? ORDER BY c.created_at ASC, c.id ASC`, pitchID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes the comment only if authorID wrote it. The ownership
// check lives in the WHERE clause, so a non-author simply affects zero rows.
func (db *DB) DeleteComment(ctx context.Context, id, authorID int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ? AND user_id = ?`, id, authorID)
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting comment %d: %w", id, err)
	}
	return affected(res)
}

func (db *DB) CountComments(ctx context.Context, pitchID int64) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE pitch_id = ?`, pitchID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting comments: %w", err)
	}
	return n, nil
}

func scanComment(s rowScanner) (*model.Comment, error) {
	var c model.Comment
	if err := s.Scan(&c.ID, &c.PitchID, &c.UserID, &c.AuthorName, &c.Body, scanTime{&c.CreatedAt}); err != nil {
		return nil, err
	}
	return &c, nil
}
