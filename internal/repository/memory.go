package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jaekwang-park/task-tracker/internal/model"
)

// MemoryStore implements the repository interfaces over mutex-guarded maps.
// It mirrors the Postgres schema's behavior, including the varchar(16)
// length limits and the unique username constraint, so the transactional
// and scoping semantics can be exercised without a database. It backs the
// "memory" store driver and the test suites.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[int64]model.User
	categories map[int64]model.Category
	todos      map[int64]model.Todo
	nextID     int64

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]model.User),
		categories: make(map[int64]model.Category),
		todos:      make(map[int64]model.Todo),
		now:        time.Now,
	}
}

func (s *MemoryStore) allocID() int64 {
	s.nextID++
	return s.nextID
}

// --- UserRepository ---

func (s *MemoryStore) CreateWithDefaultCategory(ctx context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return model.User{}, ErrDuplicateUsername
		}
	}
	if err := checkLength("users.name", user.Name); err != nil {
		return model.User{}, err
	}
	if err := checkLength("users.username", user.Username); err != nil {
		return model.User{}, err
	}

	now := s.now()
	user.ID = s.allocID()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.DeletedAt = nil
	s.users[user.ID] = user

	category, err := s.createCategoryLocked(model.Category{
		Name:   model.DefaultCategoryName(user.Name),
		UserID: user.ID,
	})
	if err != nil {
		// Roll the user insert back so signup stays all-or-nothing.
		delete(s.users, user.ID)
		return model.User{}, fmt.Errorf("failed to create default category: %w", err)
	}

	user.Categories = []model.Category{category}
	return user, nil
}

func (s *MemoryStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username && !model.Deleted(user.DeletedAt) {
			return user, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

// --- CategoryRepository ---

func (s *MemoryStore) Create(ctx context.Context, category model.Category) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCategoryLocked(category)
}

func (s *MemoryStore) createCategoryLocked(category model.Category) (model.Category, error) {
	if err := checkLength("categories.name", category.Name); err != nil {
		return model.Category{}, err
	}

	now := s.now()
	category.ID = s.allocID()
	category.CreatedAt = now
	category.UpdatedAt = now
	category.DeletedAt = nil
	s.categories[category.ID] = category
	return category, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, userID, categoryID int64) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleCategoryLocked(userID, categoryID)
}

func (s *MemoryStore) visibleCategoryLocked(userID, categoryID int64) (model.Category, error) {
	category, ok := s.categories[categoryID]
	if !ok || category.UserID != userID || category.IsDeleted() {
		return model.Category{}, sql.ErrNoRows
	}
	return category, nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := []model.Category{}
	for _, category := range s.categories {
		if category.UserID == userID && !category.IsDeleted() {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (s *MemoryStore) Rename(ctx context.Context, userID, categoryID int64, name string) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.visibleCategoryLocked(userID, categoryID)
	if err != nil {
		return model.Category{}, err
	}
	if err := checkLength("categories.name", name); err != nil {
		return model.Category{}, err
	}

	category.Name = name
	category.UpdatedAt = s.now()
	s.categories[category.ID] = category
	return category, nil
}

func (s *MemoryStore) SoftDelete(ctx context.Context, userID, categoryID int64) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.visibleCategoryLocked(userID, categoryID)
	if err != nil {
		return model.Category{}, err
	}

	now := s.now()
	category.DeletedAt = &now
	s.categories[category.ID] = category
	return category, nil
}

// --- TodoRepository ---

func (s *MemoryStore) CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	todo.ID = s.allocID()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	todo.DeletedAt = nil
	s.todos[todo.ID] = todo
	return todo, nil
}

func (s *MemoryStore) GetTodoByID(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleTodoLocked(userID, todoID)
}

func (s *MemoryStore) visibleTodoLocked(userID, todoID int64) (model.Todo, error) {
	todo, ok := s.todos[todoID]
	if !ok || todo.IsDeleted() {
		return model.Todo{}, sql.ErrNoRows
	}
	if _, err := s.visibleCategoryLocked(userID, todo.CategoryID); err != nil {
		return model.Todo{}, sql.ErrNoRows
	}
	return todo, nil
}

func (s *MemoryStore) UpdateTodo(ctx context.Context, userID int64, todo model.Todo) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.visibleTodoLocked(userID, todo.ID)
	if err != nil {
		return model.Todo{}, err
	}

	stored.Title = todo.Title
	stored.Description = todo.Description
	stored.Status = todo.Status
	stored.DueDate = todo.DueDate
	stored.UpdatedAt = s.now()
	s.todos[stored.ID] = stored
	return stored, nil
}

func (s *MemoryStore) SoftDeleteTodo(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, err := s.visibleTodoLocked(userID, todoID)
	if err != nil {
		return model.Todo{}, err
	}

	now := s.now()
	todo.DeletedAt = &now
	s.todos[todo.ID] = todo
	return todo, nil
}

func (s *MemoryStore) ListTodos(ctx context.Context, params model.TodoListParams) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos := []model.Todo{}
	for _, todo := range s.todos {
		if todo.IsDeleted() || todo.CategoryID != params.CategoryID {
			continue
		}
		if _, err := s.visibleCategoryLocked(params.UserID, todo.CategoryID); err != nil {
			continue
		}
		if params.Status != nil && todo.Status != *params.Status {
			continue
		}
		todos = append(todos, todo)
	}

	sortTodos(todos, params.Ordering)

	offset := (params.Page - 1) * params.Limit
	if offset >= len(todos) {
		return []model.Todo{}, nil
	}
	todos = todos[offset:]
	if len(todos) > params.Limit {
		todos = todos[:params.Limit]
	}
	return todos, nil
}

// sortTodos replicates the SQL orderings: due_date keys place rows without
// a due date last in both directions, and id ascending breaks every tie.
func sortTodos(todos []model.Todo, ordering model.TodoOrdering) {
	sort.Slice(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		switch ordering {
		case model.OrderByIDDesc:
			return a.ID > b.ID
		case model.OrderByDueDate, model.OrderByDueDateDesc:
			if (a.DueDate == nil) != (b.DueDate == nil) {
				return b.DueDate == nil
			}
			if a.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
				if ordering == model.OrderByDueDateDesc {
					return a.DueDate.After(*b.DueDate)
				}
				return a.DueDate.Before(*b.DueDate)
			}
			return a.ID < b.ID
		default:
			return a.ID < b.ID
		}
	})
}

func checkLength(column, value string) error {
	if len(value) > model.MaxNameLength {
		return fmt.Errorf("value too long for %s: %q", column, value)
	}
	return nil
}

var (
	_ UserRepository     = (*MemoryStore)(nil)
	_ CategoryRepository = (*MemoryStore)(nil)
)

// memoryTodos adapts MemoryStore's todo methods to TodoRepository; the
// method names differ because Create/GetByID are taken by the category side.
type memoryTodos struct {
	store *MemoryStore
}

// Todos returns the store's TodoRepository view.
func (s *MemoryStore) Todos() TodoRepository {
	return memoryTodos{store: s}
}

func (m memoryTodos) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	return m.store.CreateTodo(ctx, todo)
}

func (m memoryTodos) GetByID(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	return m.store.GetTodoByID(ctx, userID, todoID)
}

func (m memoryTodos) Update(ctx context.Context, userID int64, todo model.Todo) (model.Todo, error) {
	return m.store.UpdateTodo(ctx, userID, todo)
}

func (m memoryTodos) SoftDelete(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	return m.store.SoftDeleteTodo(ctx, userID, todoID)
}

func (m memoryTodos) List(ctx context.Context, params model.TodoListParams) ([]model.Todo, error) {
	return m.store.ListTodos(ctx, params)
}

var _ TodoRepository = memoryTodos{}
