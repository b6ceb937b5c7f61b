package model

import "time"

type Category struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	UserID    int64      `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the category carries a deletion stamp.
func (c Category) IsDeleted() bool {
	return Deleted(c.DeletedAt)
}

// Deleted is the liveness predicate shared by every entity: a record is
// soft-deleted exactly when its deletion stamp is present. The repository
// layer expresses the same predicate in SQL as "deleted_at IS NULL"; the
// two must not drift.
func Deleted(deletedAt *time.Time) bool {
	return deletedAt != nil
}
