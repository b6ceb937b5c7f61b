package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jaekwang-park/task-tracker/internal/model"
	"github.com/jaekwang-park/task-tracker/internal/repository"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// parseDueDate parses an RFC3339 string into *time.Time.
// Returns nil if input is nil.
func parseDueDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid due_date format, expected RFC3339", ErrInvalidInput)
	}
	return &t, nil
}

type CreateTodoInput struct {
	CategoryID  int64
	Title       string
	Description string
	DueDate     *string // RFC3339 string, parsed here
}

type UpdateTodoInput struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *string
}

type ListTodosInput struct {
	CategoryID int64
	Page       int
	Limit      int
	Ordering   string
	Status     *string
}

type TodoService struct {
	todos      repository.TodoRepository
	categories repository.CategoryRepository
}

func NewTodoService(todos repository.TodoRepository, categories repository.CategoryRepository) *TodoService {
	return &TodoService{todos: todos, categories: categories}
}

// Create inserts a todo under one of the caller's live categories. The
// category lookup happens before the insert: no row is ever written under a
// foreign or deleted category.
func (s *TodoService) Create(ctx context.Context, userID int64, input CreateTodoInput) (model.Todo, error) {
	if input.Title == "" {
		return model.Todo{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return model.Todo{}, err
	}

	if _, err := s.categories.GetByID(ctx, userID, input.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, fmt.Errorf("%w: category not found", ErrNotFound)
		}
		return model.Todo{}, fmt.Errorf("failed to check category: %w", err)
	}

	todo := model.Todo{
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Status:      model.TodoStatusTodo,
		DueDate:     dueDate,
	}

	created, err := s.todos.Create(ctx, todo)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}
	return created, nil
}

func (s *TodoService) Get(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	todo, err := s.todos.GetByID(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

// Patch applies a partial update and returns the row as stored after the
// write, never the pre-update snapshot.
func (s *TodoService) Patch(ctx context.Context, userID, todoID int64, input UpdateTodoInput) (model.Todo, error) {
	existing, err := s.todos.GetByID(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo for patch: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return model.Todo{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Status != nil {
		status := model.TodoStatus(*input.Status)
		if !status.IsValid() {
			return model.Todo{}, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *input.Status)
		}
		existing.Status = status
	}
	if input.DueDate != nil {
		dueDate, err := parseDueDate(input.DueDate)
		if err != nil {
			return model.Todo{}, err
		}
		existing.DueDate = dueDate
	}

	updated, err := s.todos.Update(ctx, userID, existing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to patch todo: %w", err)
	}
	return updated, nil
}

// Delete soft-deletes the todo and returns the stamped row.
func (s *TodoService) Delete(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	todo, err := s.todos.SoftDelete(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to delete todo: %w", err)
	}
	return todo, nil
}

// List returns one page of the caller's todos in the given category.
func (s *TodoService) List(ctx context.Context, userID int64, input ListTodosInput) ([]model.Todo, error) {
	params, err := buildListParams(userID, input)
	if err != nil {
		return nil, err
	}

	todos, err := s.todos.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func buildListParams(userID int64, input ListTodosInput) (model.TodoListParams, error) {
	if input.CategoryID == 0 {
		return model.TodoListParams{}, fmt.Errorf("%w: category_id is required", ErrInvalidInput)
	}

	page := input.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return model.TodoListParams{}, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit < 1 {
		return model.TodoListParams{}, fmt.Errorf("%w: limit must be >= 1", ErrInvalidInput)
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	ordering := model.TodoOrdering(input.Ordering)
	if input.Ordering == "" {
		ordering = model.OrderByID
	}
	if !ordering.IsValid() {
		return model.TodoListParams{}, fmt.Errorf("%w: invalid ordering %q", ErrInvalidInput, input.Ordering)
	}

	params := model.TodoListParams{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Page:       page,
		Limit:      limit,
		Ordering:   ordering,
	}

	if input.Status != nil {
		status := model.TodoStatus(*input.Status)
		if !status.IsValid() {
			return model.TodoListParams{}, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *input.Status)
		}
		params.Status = &status
	}

	return params, nil
}
