package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jaekwang-park/task-tracker/internal/auth"
	"github.com/jaekwang-park/task-tracker/internal/model"
	"github.com/jaekwang-park/task-tracker/internal/repository"
)

// AuthService handles signup, signin and identity resolution.
type AuthService struct {
	users  repository.UserRepository
	signer *auth.TokenSigner
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, signer *auth.TokenSigner) *AuthService {
	return &AuthService{
		users:  users,
		signer: signer,
		now:    time.Now,
	}
}

type SignupInput struct {
	Name     string
	Username string
	Password string
	TMI      string
}

func (in SignupInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(in.Name) > model.MaxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, model.MaxNameLength)
	}
	if in.Username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(in.Username) > model.MaxNameLength {
		return fmt.Errorf("%w: username must be at most %d characters", ErrInvalidInput, model.MaxNameLength)
	}
	if in.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	return nil
}

// Signup creates the user together with their default category; the two
// commit or fail as one unit. A taken username yields ErrConflict.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (model.User, error) {
	if err := input.validate(); err != nil {
		return model.User{}, err
	}

	user, err := s.users.CreateWithDefaultCategory(ctx, model.User{
		Name:     input.Name,
		Username: input.Username,
		Password: input.Password,
		TMI:      input.TMI,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return model.User{}, fmt.Errorf("%w: username already taken", ErrConflict)
		}
		return model.User{}, fmt.Errorf("failed to sign up user: %w", err)
	}

	return user, nil
}

// Signin checks the credentials and issues a session token. Unknown
// username and wrong password are indistinguishable to the caller.
//
// Passwords are compared in plaintext. This mirrors the system being
// replaced; swapping in hash-and-compare only touches this method.
func (s *AuthService) Signin(ctx context.Context, username, password string) (model.User, string, error) {
	if username == "" || password == "" {
		return model.User{}, "", fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return model.User{}, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Password != password {
		return model.User{}, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.signer.Issue(user.Username, s.now())
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	return user, token, nil
}

// GetUser looks a user up by username.
func (s *AuthService) GetUser(ctx context.Context, username string) (model.User, error) {
	if username == "" {
		return model.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ResolveToken verifies a session token and resolves it to the user it was
// issued for. Any failure along the way is ErrUnauthenticated: a bad token
// and a token for a vanished user look the same.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (model.User, error) {
	username, err := s.signer.Parse(token)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %s", ErrUnauthenticated, "invalid session token")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
		}
		return model.User{}, fmt.Errorf("failed to resolve session user: %w", err)
	}
	return user, nil
}
