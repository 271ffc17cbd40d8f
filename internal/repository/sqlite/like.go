package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/repository"
)

var _ repository.LikeRepository = (*DB)(nil)

// InsertLike adds a like row with a plain INSERT, not INSERT OR IGNORE:
// only the call that created the row may emit a notification. The
// UNIQUE (pitch_id, user_id) constraint makes the second of two concurrent
// inserts fail, which is reported as ErrConflict.
func (db *DB) InsertLike(ctx context.Context, pitchID, userID int64) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO likes (pitch_id, user_id, created_at) VALUES (?, ?, ?)`,
		pitchID, userID, db.timestamp())
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("like", fmt.Sprintf("pitch %d / user %d", pitchID, userID))
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("pitch", pitchID)
		}
		return fmt.Errorf("sqlite: inserting like: %w", err)
	}
	return nil
}

// DeleteLike reports whether a row was removed.
func (db *DB) DeleteLike(ctx context.Context, pitchID, userID int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM likes WHERE pitch_id = ? AND user_id = ?`, pitchID, userID)
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting like: %w", err)
	}
	return affected(res)
}

func (db *DB) HasLiked(ctx context.Context, pitchID, userID int64) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE pitch_id = ? AND user_id = ?`,
		pitchID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking like: %w", err)
	}
	return n > 0, nil
}

// CountLikes is always a live COUNT(*); there is no denormalized counter to drift.
func (db *DB) CountLikes(ctx context.Context, pitchID int64) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE pitch_id = ?`, pitchID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting likes: %w", err)
	}
	return n, nil
}
