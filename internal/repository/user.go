package repository

import (
	"context"
	"errors"

	"github.com/jaekwang-park/task-tracker/internal/model"
)

// ErrDuplicateUsername is returned by CreateWithDefaultCategory when the
// username is already taken.
var ErrDuplicateUsername = errors.New("username already taken")

type UserRepository interface {
	// CreateWithDefaultCategory persists the user and their default
	// category as one unit: if the category insert fails, the user
	// insert is rolled back. The returned user has Categories populated.
	CreateWithDefaultCategory(ctx context.Context, user model.User) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}
