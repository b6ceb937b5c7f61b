package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jaekwang-park/task-tracker/internal/model"
)

// ownedLiveCategory restricts a todo query to todos whose category is live
// and belongs to the given user. It is the SQL form of the ownership chain:
// a todo is visible only through a live category of the requester.
const ownedLiveCategory = `t.category_id IN (
		SELECT id FROM categories WHERE user_id = %s AND deleted_at IS NULL
	)`

var todoOrderings = map[model.TodoOrdering]string{
	model.OrderByID:          "t.id",
	model.OrderByIDDesc:      "t.id DESC",
	model.OrderByDueDate:     "t.due_date NULLS LAST, t.id",
	model.OrderByDueDateDesc: "t.due_date DESC NULLS LAST, t.id",
}

type PostgresTodoRepository struct {
	db *sql.DB
}

func NewPostgresTodo(db *sql.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

func (r *PostgresTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `
		INSERT INTO todos (category_id, title, description, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, category_id, title, description, status, due_date, created_at, updated_at, deleted_at`

	row := r.db.QueryRowContext(ctx, query,
		todo.CategoryID, todo.Title, todo.Description, todo.Status, todo.DueDate,
	)
	return scanTodo(row)
}

func (r *PostgresTodoRepository) GetByID(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	query := `
		SELECT t.id, t.category_id, t.title, t.description, t.status, t.due_date,
		       t.created_at, t.updated_at, t.deleted_at
		FROM todos t
		WHERE t.id = $1 AND t.deleted_at IS NULL AND ` + fmt.Sprintf(ownedLiveCategory, "$2")

	row := r.db.QueryRowContext(ctx, query, todoID, userID)
	return scanTodo(row)
}

func (r *PostgresTodoRepository) Update(ctx context.Context, userID int64, todo model.Todo) (model.Todo, error) {
	query := `
		UPDATE todos t
		SET title = $1, description = $2, status = $3, due_date = $4, updated_at = now()
		WHERE t.id = $5 AND t.deleted_at IS NULL AND ` + fmt.Sprintf(ownedLiveCategory, "$6") + `
		RETURNING id, category_id, title, description, status, due_date, created_at, updated_at, deleted_at`

	row := r.db.QueryRowContext(ctx, query,
		todo.Title, todo.Description, todo.Status, todo.DueDate, todo.ID, userID,
	)
	return scanTodo(row)
}

func (r *PostgresTodoRepository) SoftDelete(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	query := `
		UPDATE todos t
		SET deleted_at = now()
		WHERE t.id = $1 AND t.deleted_at IS NULL AND ` + fmt.Sprintf(ownedLiveCategory, "$2") + `
		RETURNING id, category_id, title, description, status, due_date, created_at, updated_at, deleted_at`

	row := r.db.QueryRowContext(ctx, query, todoID, userID)
	return scanTodo(row)
}

func (r *PostgresTodoRepository) List(ctx context.Context, params model.TodoListParams) ([]model.Todo, error) {
	orderBy, ok := todoOrderings[params.Ordering]
	if !ok {
		return nil, fmt.Errorf("unknown ordering %q", params.Ordering)
	}

	args := []any{params.UserID, params.CategoryID}
	argIdx := 3

	query := `
		SELECT t.id, t.category_id, t.title, t.description, t.status, t.due_date,
		       t.created_at, t.updated_at, t.deleted_at
		FROM todos t
		WHERE t.deleted_at IS NULL AND ` + fmt.Sprintf(ownedLiveCategory, "$1") + `
		AND t.category_id = $2`

	if params.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)
		args = append(args, string(*params.Status))
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, argIdx, argIdx+1)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

func scanTodo(row scannable) (model.Todo, error) {
	var t model.Todo
	var dueDate, deletedAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.CategoryID, &t.Title, &t.Description,
		&t.Status, &dueDate, &t.CreatedAt, &t.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, err
		}
		return model.Todo{}, fmt.Errorf("failed to scan todo: %w", err)
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if deletedAt.Valid {
		t.DeletedAt = &deletedAt.Time
	}
	return t, nil
}

var _ TodoRepository = (*PostgresTodoRepository)(nil)
