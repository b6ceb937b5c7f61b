package repository

import (
	"context"

	"github.com/jaekwang-park/task-tracker/internal/model"
)

// TodoRepository scopes todos through their owning category: a todo is
// reachable only while it is live, its category is live, and the category
// belongs to the given user.
type TodoRepository interface {
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	GetByID(ctx context.Context, userID, todoID int64) (model.Todo, error)
	Update(ctx context.Context, userID int64, todo model.Todo) (model.Todo, error)
	SoftDelete(ctx context.Context, userID, todoID int64) (model.Todo, error)
	List(ctx context.Context, params model.TodoListParams) ([]model.Todo, error)
}
