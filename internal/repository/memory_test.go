package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jaekwang-park/task-tracker/internal/model"
	"github.com/jaekwang-park/task-tracker/internal/repository"
)

func newUser(t *testing.T, store *repository.MemoryStore, name, username string) model.User {
	t.Helper()
	user, err := store.CreateWithDefaultCategory(context.Background(), model.User{
		Name:     name,
		Username: username,
		Password: "password",
		TMI:      "tmi",
	})
	if err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return user
}

func newTodo(t *testing.T, store *repository.MemoryStore, categoryID int64, title string, due *time.Time) model.Todo {
	t.Helper()
	todo, err := store.Todos().Create(context.Background(), model.Todo{
		CategoryID: categoryID,
		Title:      title,
		Status:     model.TodoStatusTodo,
		DueDate:    due,
	})
	if err != nil {
		t.Fatalf("failed to create todo %q: %v", title, err)
	}
	return todo
}

func TestCreateWithDefaultCategory(t *testing.T) {
	store := repository.NewMemoryStore()
	user := newUser(t, store, "John Doe", "johndoe")

	if len(user.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(user.Categories))
	}
	if got := user.Categories[0].Name; got != "John Doe Default" {
		t.Errorf("expected default category name %q, got %q", "John Doe Default", got)
	}
	if user.Categories[0].UserID != user.ID {
		t.Errorf("default category owned by user %d, want %d", user.Categories[0].UserID, user.ID)
	}
}

func TestCreateWithDefaultCategory_DuplicateUsername(t *testing.T) {
	store := repository.NewMemoryStore()
	newUser(t, store, "John Doe", "johndoe")

	_, err := store.CreateWithDefaultCategory(context.Background(), model.User{
		Name:     "Other John",
		Username: "johndoe",
		Password: "password",
	})
	if !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestCreateWithDefaultCategory_RollsBackUser(t *testing.T) {
	store := repository.NewMemoryStore()

	// "Maximiliano Go" is within users.name's 16-char limit, but the
	// derived "<name> Default" category name exceeds it, so the category
	// insert fails and the whole signup must unwind.
	_, err := store.CreateWithDefaultCategory(context.Background(), model.User{
		Name:     "Maximiliano Go",
		Username: "maxgo",
		Password: "password",
	})
	if err == nil {
		t.Fatal("expected signup to fail on default category insert")
	}

	if _, err := store.GetByUsername(context.Background(), "maxgo"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("user survived a failed signup: err = %v", err)
	}
}

func TestCategoryOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	alice := newUser(t, store, "Alice", "alice")
	bob := newUser(t, store, "Bob", "bob")
	category := alice.Categories[0]

	if _, err := store.GetByID(ctx, bob.ID, category.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("get across tenants: expected sql.ErrNoRows, got %v", err)
	}
	if _, err := store.Rename(ctx, bob.ID, category.ID, "stolen"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("rename across tenants: expected sql.ErrNoRows, got %v", err)
	}
	if _, err := store.SoftDelete(ctx, bob.ID, category.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("delete across tenants: expected sql.ErrNoRows, got %v", err)
	}

	// The owner still sees it untouched.
	got, err := store.GetByID(ctx, alice.ID, category.ID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if got.Name != category.Name {
		t.Errorf("category name changed to %q", got.Name)
	}
}

func TestSoftDeletedCategoryIsHidden(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	user := newUser(t, store, "Alice", "alice")
	category := user.Categories[0]

	deleted, err := store.SoftDelete(ctx, user.ID, category.ID)
	if err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if !deleted.IsDeleted() {
		t.Fatal("returned category has no deletion stamp")
	}

	categories, err := store.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("soft-deleted category still listed: %+v", categories)
	}

	if _, err := store.GetByID(ctx, user.ID, category.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("get of soft-deleted category: expected sql.ErrNoRows, got %v", err)
	}

	// Deleting again finds nothing: the dead row is out of scope.
	if _, err := store.SoftDelete(ctx, user.ID, category.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second delete: expected sql.ErrNoRows, got %v", err)
	}
}

func TestTodosHiddenWhenCategoryDeleted(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	user := newUser(t, store, "Alice", "alice")
	category := user.Categories[0]
	todo := newTodo(t, store, category.ID, "live todo", nil)

	if _, err := store.SoftDelete(ctx, user.ID, category.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	// The todo itself carries no stamp, but its owning chain is dead.
	if _, err := store.Todos().GetByID(ctx, user.ID, todo.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("todo under deleted category: expected sql.ErrNoRows, got %v", err)
	}

	todos, err := store.Todos().List(ctx, model.TodoListParams{
		UserID:     user.ID,
		CategoryID: category.ID,
		Page:       1,
		Limit:      10,
		Ordering:   model.OrderByID,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("expected empty listing, got %d todos", len(todos))
	}
}

func TestListTodos_Pagination(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	user := newUser(t, store, "Alice", "alice")
	category := user.Categories[0]
	first := newTodo(t, store, category.ID, "first", nil)
	second := newTodo(t, store, category.ID, "second", nil)

	todos, err := store.Todos().List(ctx, model.TodoListParams{
		UserID:     user.ID,
		CategoryID: category.ID,
		Page:       1,
		Limit:      1,
		Ordering:   model.OrderByID,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != first.ID {
		t.Fatalf("page 1 returned %+v, want only todo %d", todos, first.ID)
	}

	todos, err = store.Todos().List(ctx, model.TodoListParams{
		UserID:     user.ID,
		CategoryID: category.ID,
		Page:       2,
		Limit:      1,
		Ordering:   model.OrderByID,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("expected exactly 1 todo, got %d", len(todos))
	}
	if todos[0].ID != second.ID {
		t.Errorf("page 2 returned todo %d, want %d", todos[0].ID, second.ID)
	}

	// Past the end: empty, not an error.
	todos, err = store.Todos().List(ctx, model.TodoListParams{
		UserID:     user.ID,
		CategoryID: category.ID,
		Page:       3,
		Limit:      1,
		Ordering:   model.OrderByID,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("expected empty page, got %d todos", len(todos))
	}
}

func TestListTodos_Ordering(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	user := newUser(t, store, "Alice", "alice")
	category := user.Categories[0]

	early := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	a := newTodo(t, store, category.ID, "due late", &late)
	b := newTodo(t, store, category.ID, "no due date", nil)
	c := newTodo(t, store, category.ID, "due early", &early)
	d := newTodo(t, store, category.ID, "due late too", &late)

	tests := []struct {
		name     string
		ordering model.TodoOrdering
		want     []int64
	}{
		{"id ascending", model.OrderByID, []int64{a.ID, b.ID, c.ID, d.ID}},
		{"id descending", model.OrderByIDDesc, []int64{d.ID, c.ID, b.ID, a.ID}},
		// Nulls last; equal due dates break on id ascending.
		{"due date ascending", model.OrderByDueDate, []int64{c.ID, a.ID, d.ID, b.ID}},
		{"due date descending", model.OrderByDueDateDesc, []int64{a.ID, d.ID, c.ID, b.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos, err := store.Todos().List(ctx, model.TodoListParams{
				UserID:     user.ID,
				CategoryID: category.ID,
				Page:       1,
				Limit:      10,
				Ordering:   tt.ordering,
			})
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(todos) != len(tt.want) {
				t.Fatalf("expected %d todos, got %d", len(tt.want), len(todos))
			}
			for i, id := range tt.want {
				if todos[i].ID != id {
					t.Errorf("position %d: got todo %d, want %d", i, todos[i].ID, id)
				}
			}
		})
	}
}

func TestListTodos_StatusFilter(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	user := newUser(t, store, "Alice", "alice")
	category := user.Categories[0]
	newTodo(t, store, category.ID, "open", nil)
	doneTodo := newTodo(t, store, category.ID, "finished", nil)

	doneTodo.Status = model.TodoStatusDone
	if _, err := store.Todos().Update(ctx, user.ID, doneTodo); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	done := model.TodoStatusDone
	todos, err := store.Todos().List(ctx, model.TodoListParams{
		UserID:     user.ID,
		CategoryID: category.ID,
		Status:     &done,
		Page:       1,
		Limit:      10,
		Ordering:   model.OrderByID,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != doneTodo.ID {
		t.Fatalf("status filter returned %+v, want only todo %d", todos, doneTodo.ID)
	}
}

func TestSoftDeleteTodo_SecondDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	user := newUser(t, store, "Alice", "alice")
	todo := newTodo(t, store, user.Categories[0].ID, "doomed", nil)

	if _, err := store.Todos().SoftDelete(ctx, user.ID, todo.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if _, err := store.Todos().SoftDelete(ctx, user.ID, todo.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("second delete: expected sql.ErrNoRows, got %v", err)
	}
}
