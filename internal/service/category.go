package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jaekwang-park/task-tracker/internal/model"
	"github.com/jaekwang-park/task-tracker/internal/repository"
)

type CategoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func validateCategoryName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > model.MaxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, model.MaxNameLength)
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, userID int64, name string) (model.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return model.Category{}, err
	}

	category, err := s.repo.Create(ctx, model.Category{Name: name, UserID: userID})
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, categoryID int64) (model.Category, error) {
	category, err := s.repo.GetByID(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, userID int64) ([]model.Category, error) {
	categories, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Rename changes the category's name and returns the row as stored after
// the write.
func (s *CategoryService) Rename(ctx context.Context, userID, categoryID int64, name string) (model.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return model.Category{}, err
	}

	category, err := s.repo.Rename(ctx, userID, categoryID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, fmt.Errorf("failed to rename category: %w", err)
	}
	return category, nil
}

// Delete soft-deletes the category and returns the stamped row. Deleting a
// category that is already gone, or not the caller's, fails ErrNotFound.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID int64) (model.Category, error) {
	category, err := s.repo.SoftDelete(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, fmt.Errorf("failed to delete category: %w", err)
	}
	return category, nil
}
