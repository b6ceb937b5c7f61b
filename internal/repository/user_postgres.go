package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jaekwang-park/task-tracker/internal/model"
)

const pqUniqueViolation = "23505"

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUser(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateWithDefaultCategory(ctx context.Context, user model.User) (model.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to begin signup transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (name, username, password, tmi)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, username, password, tmi, created_at, updated_at, deleted_at`

	created, err := scanUser(tx.QueryRowContext(ctx, query,
		user.Name, user.Username, user.Password, user.TMI,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return model.User{}, ErrDuplicateUsername
		}
		return model.User{}, err
	}

	catQuery := `
		INSERT INTO categories (name, user_id)
		VALUES ($1, $2)
		RETURNING id, name, user_id, created_at, updated_at, deleted_at`

	category, err := scanCategory(tx.QueryRowContext(ctx, catQuery,
		model.DefaultCategoryName(created.Name), created.ID,
	))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create default category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, fmt.Errorf("failed to commit signup: %w", err)
	}

	created.Categories = []model.Category{category}
	return created, nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	query := `
		SELECT id, name, username, password, tmi, created_at, updated_at, deleted_at
		FROM users
		WHERE username = $1 AND deleted_at IS NULL`

	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func scanUser(row scannable) (model.User, error) {
	var u model.User
	var deletedAt sql.NullTime
	err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Password,
		&u.TMI, &u.CreatedAt, &u.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	if deletedAt.Valid {
		u.DeletedAt = &deletedAt.Time
	}
	return u, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
