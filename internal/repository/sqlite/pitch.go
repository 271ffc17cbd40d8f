package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

var _ repository.PitchRepository = (*DB)(nil)

// pitchSelect joins the author so every read carries AuthorName without a
// second round trip.
const pitchSelect = `
	SELECT p.id, p.title, p.summary, p.body, p.category, p.tags, p.image,
	       p.funding_goal, p.stage, p.team_size, p.location, p.website, p.demo_url,
	       p.author_id, u.username, p.created_at
	FROM pitches p
	JOIN users u ON u.id = p.author_id`

// CreatePitch inserts the pitch and its looking_for set in one transaction.
// A missing author surfaces as apperror.ErrNotFound via the foreign key.
func (db *DB) CreatePitch(ctx context.Context, p *model.Pitch) error {
	p.CreatedAt = db.now().UTC()
	p.LookingFor = dedupe(p.LookingFor)

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO pitches (title, summary, body, category, tags, image,
			                      funding_goal, stage, team_size, location, website,
			                      demo_url, author_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Title, p.Summary, p.Body, p.Category, p.Tags, p.Image,
			p.FundingGoal, p.Stage, p.TeamSize, p.Location, p.Website,
			p.DemoURL, p.AuthorID, formatTime(p.CreatedAt),
		)
		if err != nil {
			return err
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return err
		}

		for _, v := range p.LookingFor {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO pitch_looking_for (pitch_id, value) VALUES (?, ?)`,
				p.ID, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", p.AuthorID)
		}
		return fmt.Errorf("sqlite: inserting pitch: %w", err)
	}
	return nil
}

func (db *DB) GetPitch(ctx context.Context, id int64) (*model.Pitch, error) {
	row := db.conn.QueryRowContext(ctx, pitchSelect+` WHERE p.id = ?`, id)

	p, err := scanPitch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("pitch", id)
		}
		return nil, fmt.Errorf("sqlite: getting pitch %d: %w", id, err)
	}

	pitches := []model.Pitch{*p}
	if err := db.loadLookingFor(ctx, pitches); err != nil {
		return nil, err
	}
	return &pitches[0], nil
}

// ListPitches returns pitches newest first. A non-empty query is matched as a
// case-insensitive substring against title, summary, body, category and tags.
// LIKE wildcards in the query are escaped so "100%" means the literal text.
func (db *DB) ListPitches(ctx context.Context, query string, opts repository.ListOptions) ([]model.Pitch, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)

	q := pitchSelect
	args := []any{}
	if query = strings.TrimSpace(query); query != "" {
		pattern := "%" + escapeLike(query) + "%"
		q += ` WHERE p.title LIKE ? ESCAPE '\'
		          OR p.summary LIKE ? ESCAPE '\'
		          OR p.body LIKE ? ESCAPE '\'
		          OR p.category LIKE ? ESCAPE '\'
		          OR p.tags LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}
	q += ` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return db.queryPitches(ctx, q, args...)
}

func (db *DB) ListPitchesByAuthor(ctx context.Context, authorID int64, opts repository.ListOptions) ([]model.Pitch, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)
	return db.queryPitches(ctx,
		pitchSelect+` WHERE p.author_id = ? ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`,
		authorID, limit, offset)
}

// DeletePitch cascades to its likes, comments and looking_for rows.
// Notifications that point at the pitch keep their related_id.
func (db *DB) DeletePitch(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM pitches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting pitch %d: %w", id, err)
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("pitch", id)
	}
	return nil
}

func (db *DB) queryPitches(ctx context.Context, query string, args ...any) ([]model.Pitch, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing pitches: %w", err)
	}
	defer rows.Close()

	pitches := []model.Pitch{}
	for rows.Next() {
		p, err := scanPitch(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning pitch: %w", err)
		}
		pitches = append(pitches, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating pitches: %w", err)
	}

	if err := db.loadLookingFor(ctx, pitches); err != nil {
		return nil, err
	}
	return pitches, nil
}

// loadLookingFor fills LookingFor for every pitch with a single IN (...) query.
func (db *DB) loadLookingFor(ctx context.Context, pitches []model.Pitch) error {
	if len(pitches) == 0 {
		return nil
	}

	index := make(map[int64]int, len(pitches))
	args := make([]any, 0, len(pitches))
	for i := range pitches {
		pitches[i].LookingFor = []string{}
		index[pitches[i].ID] = i
		args = append(args, pitches[i].ID)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")
	rows, err := db.conn.QueryContext(ctx,
		`SELECT pitch_id, value FROM pitch_looking_for
		 WHERE pitch_id IN (`+placeholders+`)
		 ORDER BY pitch_id, value`, args...)
	if err != nil {
		return fmt.Errorf("sqlite: loading looking_for: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pitchID int64
			value   string
		)
		if err := rows.Scan(&pitchID, &value); err != nil {
			return fmt.Errorf("sqlite: scanning looking_for: %w", err)
		}
		if i, ok := index[pitchID]; ok {
			pitches[i].LookingFor = append(pitches[i].LookingFor, value)
		}
	}
	return rows.Err()
}

func scanPitch(s rowScanner) (*model.Pitch, error) {
	var p model.Pitch
	err := s.Scan(
		&p.ID, &p.Title, &p.Summary, &p.Body, &p.Category, &p.Tags, &p.Image,
		&p.FundingGoal, &p.Stage, &p.TeamSize, &p.Location, &p.Website, &p.DemoURL,
		&p.AuthorID, &p.AuthorName, scanTime{&p.CreatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// dedupe trims values and drops blanks and repeats, keeping first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
