package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

var _ repository.StatsRepository = (*DB)(nil)

// Stats computes site-wide totals with one scalar-subquery SELECT so all six
// counts come from the same snapshot.
func (db *DB) Stats(ctx context.Context) (*model.Stats, error) {
	var s model.Stats
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM pitches),
			(SELECT COUNT(*) FROM likes),
			(SELECT COUNT(*) FROM comments),
			(SELECT COUNT(*) FROM messages),
			(SELECT COUNT(*) FROM notifications)`,
	).Scan(&s.Users, &s.Pitches, &s.Likes, &s.Comments, &s.Messages, &s.Notifications)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing stats: %w", err)
	}
	return &s, nil
}
