package services

import (
	"fmt"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// CategoryService manages categories
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory validates and stores a category
func (s *CategoryService) CreateCategory(name string) (*models.Category, error) {
	category := &models.Category{Name: name}
	if err := category.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns all categories ordered by name
func (s *CategoryService) ListCategories() ([]*models.Category, error) {
	return s.categoryRepo.List()
}

// DeleteCategory removes a category. Posts keep existing.
func (s *CategoryService) DeleteCategory(id int) error {
	return s.categoryRepo.Delete(id)
}
