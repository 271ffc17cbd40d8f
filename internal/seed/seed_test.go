package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/pitchhub/internal/auth"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
	"github.com/sakif/pitchhub/internal/repository/sqlite"
	"github.com/sakif/pitchhub/internal/service"
)

func newSeeder(t *testing.T, opts Options) (*Seeder, *sqlite.DB) {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewTokenService("seed-test-secret-0123456789", 0)
	require.NoError(t, err)
	notifier := service.NewNotifier(db, logger)

	svc := Services{
		Auth:         service.NewAuthService(db, tokens, auth.NewPasswordServiceWithCost(4), logger),
		Pitches:      service.NewPitchService(db, db, db, db, logger),
		Interactions: service.NewInteractionService(db, db, db, db, notifier, logger),
		Messaging:    service.NewMessagingService(db, db, notifier, logger),
	}
	return New(svc, opts, logger), db
}

func smallOptions() Options {
	return Options{
		Seed:            42,
		Users:           4,
		PitchesPerUser:  2,
		LikesPerPitch:   3,
		CommentsPerUser: 2,
		MessagesPerUser: 3,
	}
}

func TestRun_CountsMatchStore(t *testing.T) {
	s, db := newSeeder(t, smallOptions())
	ctx := context.Background()

	res, err := s.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Users)
	assert.Equal(t, 8, res.Pitches)
	assert.Equal(t, 8*3, res.Likes)
	assert.Equal(t, 4*2, res.Comments)

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Users, stats.Users)
	assert.Equal(t, res.Pitches, stats.Pitches)
	assert.Equal(t, res.Likes, stats.Likes)
	assert.Equal(t, res.Comments, stats.Comments)
	assert.Equal(t, res.Messages, stats.Messages)

	// every message notifies; likes and comments only when the actor is not the author
	assert.GreaterOrEqual(t, stats.Notifications, res.Messages)
	assert.LessOrEqual(t, stats.Notifications, res.Messages+res.Likes+res.Comments)
}

func TestRun_UsersCanLogIn(t *testing.T) {
	s, db := newSeeder(t, smallOptions())
	ctx := context.Background()

	_, err := s.Run(ctx)
	require.NoError(t, err)

	users, err := db.ListUsers(ctx, repository.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, users)

	for _, u := range users {
		assert.Equal(t, model.RoleUser, u.Role)
		_, err := s.svc.Auth.Login(ctx, u.Username, DefaultPassword)
		assert.NoError(t, err, "login as %s", u.Username)
	}
}

func TestRun_Deterministic(t *testing.T) {
	ctx := context.Background()

	names := func() []string {
		s, db := newSeeder(t, smallOptions())
		_, err := s.Run(ctx)
		require.NoError(t, err)

		users, err := db.ListUsers(ctx, repository.ListOptions{Limit: 10})
		require.NoError(t, err)
		out := make([]string, len(users))
		for i, u := range users {
			out[i] = u.Username
		}
		return out
	}

	assert.Equal(t, names(), names())
}

func TestRun_NoUsers(t *testing.T) {
	s, _ := newSeeder(t, Options{Seed: 1, PitchesPerUser: 3})

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{}, *res)
}
