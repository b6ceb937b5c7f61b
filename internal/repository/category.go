package repository

import (
	"context"

	"github.com/jaekwang-park/task-tracker/internal/model"
)

// CategoryRepository scopes every read and write to the owning user and to
// live rows. A lookup that matches a soft-deleted row, or a row owned by
// another user, yields sql.ErrNoRows just like a missing one.
type CategoryRepository interface {
	Create(ctx context.Context, category model.Category) (model.Category, error)
	GetByID(ctx context.Context, userID, categoryID int64) (model.Category, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Category, error)
	Rename(ctx context.Context, userID, categoryID int64, name string) (model.Category, error)
	SoftDelete(ctx context.Context, userID, categoryID int64) (model.Category, error)
}
