package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jaekwang-park/task-tracker/internal/model"
)

type PostgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategory(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, category model.Category) (model.Category, error) {
	query := `
		INSERT INTO categories (name, user_id)
		VALUES ($1, $2)
		RETURNING id, name, user_id, created_at, updated_at, deleted_at`

	return scanCategory(r.db.QueryRowContext(ctx, query, category.Name, category.UserID))
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, userID, categoryID int64) (model.Category, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at, deleted_at
		FROM categories
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	return scanCategory(r.db.QueryRowContext(ctx, query, categoryID, userID))
}

func (r *PostgresCategoryRepository) ListByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at, deleted_at
		FROM categories
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

func (r *PostgresCategoryRepository) Rename(ctx context.Context, userID, categoryID int64, name string) (model.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL
		RETURNING id, name, user_id, created_at, updated_at, deleted_at`

	return scanCategory(r.db.QueryRowContext(ctx, query, name, categoryID, userID))
}

func (r *PostgresCategoryRepository) SoftDelete(ctx context.Context, userID, categoryID int64) (model.Category, error) {
	query := `
		UPDATE categories
		SET deleted_at = now()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING id, name, user_id, created_at, updated_at, deleted_at`

	return scanCategory(r.db.QueryRowContext(ctx, query, categoryID, userID))
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCategory(row scannable) (model.Category, error) {
	var c model.Category
	var deletedAt sql.NullTime
	err := row.Scan(
		&c.ID, &c.Name, &c.UserID,
		&c.CreatedAt, &c.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, err
		}
		return model.Category{}, fmt.Errorf("failed to scan category: %w", err)
	}
	if deletedAt.Valid {
		c.DeletedAt = &deletedAt.Time
	}
	return c, nil
}

var _ CategoryRepository = (*PostgresCategoryRepository)(nil)
