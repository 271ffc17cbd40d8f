package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/model"
)

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)

	u, err := env.auth.Register(context.Background(), "  new_user  ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "new_user", u.Username)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"))
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		username  string
		password  string
		wantField string
	}{
		{"empty username", "", "password123", "username"},
		{"short username", "ab", "password123", "username"},
		{"long username", strings.Repeat("a", 33), "password123", "username"},
		{"bad characters", "bob smith", "password123", "username"},
		{"empty password", "bobsmith", "", "password"},
		{"short password", "bobsmith", "short", "password"},
		{"password over 72 bytes", "bobsmith", strings.Repeat("p", 73), "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), tt.username, tt.password)
			require.ErrorIs(t, err, apperror.ErrValidation)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantField, appErr.Field)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "taken", "password123")
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, "taken", "different456")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	res, err := env.auth.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = env.auth.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = env.auth.Login(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestGetUserByID(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "alice")

	got, err := env.auth.GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = env.auth.GetUserByID(context.Background(), 555)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// =========================================================================
// BOOTSTRAP ADMIN TESTS
// =========================================================================

func TestEnsureAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.auth.EnsureAdmin(ctx, "root", "rootpassword"))
	require.NoError(t, env.auth.EnsureAdmin(ctx, "root", "another-password"), "second call is a no-op")

	u, err := env.db.GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	// the original password still works: the second call changed nothing
	_, err = env.auth.Login(ctx, "root", "rootpassword")
	assert.NoError(t, err)

	assert.NoError(t, env.auth.EnsureAdmin(ctx, "", ""), "empty username disables bootstrap")
}
