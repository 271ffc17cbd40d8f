package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/auth"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 32
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// AuthService handles registration, login and the bootstrap admin.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                              ↘ TokenService (JWT), PasswordService (bcrypt)
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user and the issued JWT so the handler can set the
// cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates an account with role "user". A taken username fails
// with ErrConflict, decided by the database constraint.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	return s.create(ctx, username, password, model.RoleUser)
}

// Login checks the credentials and issues a token. An unknown username and
// a wrong password produce the same ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Info("login failed", slog.String("username", user.Username))
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)
	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID backs GET /api/me.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", id, err)
	}
	return user, nil
}

// EnsureAdmin creates the configured bootstrap admin if no account with that
// username exists. An existing account is left untouched, whatever its role.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		s.logger.Debug("bootstrap admin already exists", slog.String("username", username))
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("service/auth: looking up admin: %w", err)
	}

	u, err := s.create(ctx, username, password, model.RoleAdmin)
	if err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created",
		slog.Int64("userID", u.ID),
		slog.String("username", u.Username),
	)
	return nil
}

func (s *AuthService) create(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return nil, apperror.ValidationFailed("username", "username is required")
	case len(username) < MinUsernameLength || len(username) > MaxUsernameLength:
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d to %d characters", MinUsernameLength, MaxUsernameLength))
	case !usernamePattern.MatchString(username):
		return nil, apperror.ValidationFailed("username",
			"username may only contain letters, digits, '.', '_' and '-'")
	}

	switch {
	case password == "":
		return nil, apperror.ValidationFailed("password", "password is required")
	case len(password) < MinPasswordLength:
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	case len(password) > auth.MaxPasswordBytes:
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d bytes or fewer", auth.MaxPasswordBytes))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: hash, Role: role}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(role)),
	)
	return user, nil
}
