package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jaekwang-park/task-tracker/internal/auth"
	"github.com/jaekwang-park/task-tracker/internal/repository"
	"github.com/jaekwang-park/task-tracker/internal/service"
)

func newAuthService() (*service.AuthService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	signer := auth.NewTokenSigner("test-secret", time.Hour)
	return service.NewAuthService(store, signer), store
}

func signupJohn(t *testing.T, svc *service.AuthService) {
	t.Helper()
	_, err := svc.Signup(context.Background(), service.SignupInput{
		Name:     "John Doe",
		Username: "johndoe",
		Password: "password",
		TMI:      "tmi",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name    string
		input   service.SignupInput
		wantErr error
	}{
		{
			name:  "success",
			input: service.SignupInput{Name: "John Doe", Username: "johndoe", Password: "password", TMI: "tmi"},
		},
		{
			name:    "missing name",
			input:   service.SignupInput{Username: "johndoe", Password: "password"},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "missing username",
			input:   service.SignupInput{Name: "John Doe", Password: "password"},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "missing password",
			input:   service.SignupInput{Name: "John Doe", Username: "johndoe"},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "name too long",
			input:   service.SignupInput{Name: "a name of seventeen", Username: "johndoe", Password: "password"},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "username too long",
			input:   service.SignupInput{Name: "John Doe", Username: "johndoejohndoejoh", Password: "password"},
			wantErr: service.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAuthService()
			user, err := svc.Signup(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Username != tt.input.Username {
				t.Errorf("expected username %q, got %q", tt.input.Username, user.Username)
			}
			if len(user.Categories) != 1 || user.Categories[0].Name != "John Doe Default" {
				t.Errorf("expected default category, got %+v", user.Categories)
			}
		})
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	svc, _ := newAuthService()
	signupJohn(t, svc)

	_, err := svc.Signup(context.Background(), service.SignupInput{
		Name:     "Other John",
		Username: "johndoe",
		Password: "hunter2",
	})
	if !errors.Is(err, service.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSignup_AtomicRollback(t *testing.T) {
	svc, _ := newAuthService()

	// Name passes input validation but makes the derived default category
	// name exceed the storage limit, failing the second insert.
	_, err := svc.Signup(context.Background(), service.SignupInput{
		Name:     "Maximiliano Go",
		Username: "maxgo",
		Password: "password",
	})
	if err == nil {
		t.Fatal("expected signup to fail")
	}

	if _, err := svc.GetUser(context.Background(), "maxgo"); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("user survived failed signup: err = %v", err)
	}
}

func TestSignin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"success", "johndoe", "password", nil},
		{"wrong password", "johndoe", "nope", service.ErrUnauthorized},
		{"unknown user", "ghost", "password", service.ErrUnauthorized},
		{"empty username", "", "password", service.ErrInvalidInput},
		{"empty password", "johndoe", "", service.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAuthService()
			signupJohn(t, svc)

			user, token, err := svc.Signin(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Username != tt.username {
				t.Errorf("expected username %q, got %q", tt.username, user.Username)
			}
			if token == "" {
				t.Error("expected a session token")
			}
		})
	}
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _ := newAuthService()

	if _, err := svc.GetUser(context.Background(), "ghost"); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveToken(t *testing.T) {
	svc, _ := newAuthService()
	signupJohn(t, svc)

	_, token, err := svc.Signin(context.Background(), "johndoe", "password")
	if err != nil {
		t.Fatalf("signin failed: %v", err)
	}

	user, err := svc.ResolveToken(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if user.Username != "johndoe" {
		t.Errorf("resolved wrong user %q", user.Username)
	}

	if _, err := svc.ResolveToken(context.Background(), "garbage"); !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("garbage token: expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveToken_UnknownUser(t *testing.T) {
	svc, _ := newAuthService()

	// A well-signed token for a user that was never created.
	signer := auth.NewTokenSigner("test-secret", time.Hour)
	token, err := signer.Issue("ghost", time.Now())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := svc.ResolveToken(context.Background(), token); !errors.Is(err, service.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
