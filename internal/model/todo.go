package model

import "time"

type TodoStatus string

const (
	TodoStatusTodo TodoStatus = "todo"
	TodoStatusDone TodoStatus = "done"
)

func (s TodoStatus) IsValid() bool {
	return s == TodoStatusTodo || s == TodoStatusDone
}

type Todo struct {
	ID          int64      `json:"id"`
	CategoryID  int64      `json:"category_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TodoStatus `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the todo carries a deletion stamp.
func (t Todo) IsDeleted() bool {
	return Deleted(t.DeletedAt)
}

// TodoOrdering selects the sort key for todo listings. A leading '-' means
// descending. Ties always break on id ascending; rows without a due date
// sort last under both due_date orderings.
type TodoOrdering string

const (
	OrderByID          TodoOrdering = "id"
	OrderByIDDesc      TodoOrdering = "-id"
	OrderByDueDate     TodoOrdering = "due_date"
	OrderByDueDateDesc TodoOrdering = "-due_date"
)

func (o TodoOrdering) IsValid() bool {
	switch o {
	case OrderByID, OrderByIDDesc, OrderByDueDate, OrderByDueDateDesc:
		return true
	}
	return false
}

type TodoListParams struct {
	UserID     int64
	CategoryID int64
	Status     *TodoStatus
	Page       int
	Limit      int
	Ordering   TodoOrdering
}
