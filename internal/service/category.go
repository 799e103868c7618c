package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/catalog-service/internal/apperror"
	"github.com/sakif/catalog-service/internal/model"
	"github.com/sakif/catalog-service/internal/repository"
)

// CategoryPage is one page of the category listing plus the pagination
// bookkeeping the response envelope needs.
type CategoryPage struct {
	Page    int
	PerPage int
	Total   int
	Items   []model.Category
}

// CategoryService handles category business logic. Resolution and ownership
// of existing categories are the pipeline's job; by the time Delete runs,
// the category is known to exist and to belong to the caller.
type CategoryService struct {
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewCategoryService(categories repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger,
	}
}

// List returns one page of categories. per_page has already passed the
// [1,20] validation; a page below 1 is treated as page 1 rather than an
// error. A page past the end yields an empty Items slice, not a failure.
func (s *CategoryService) List(ctx context.Context, page, perPage int) (*CategoryPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.categories.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: counting categories: %w", err)
	}

	items, err := s.categories.List(ctx, repository.ListOptions{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("service: listing categories: %w", err)
	}

	return &CategoryPage{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Items:   items,
	}, nil
}

// Create adds a category owned by userID. Names are unique across ALL
// categories, whoever owns them, so the probe is unscoped.
func (s *CategoryService) Create(ctx context.Context, name, userID string) (*model.Category, error) {
	_, err := s.categories.GetByName(ctx, name)
	if err == nil {
		return nil, apperror.CategoryAlreadyExists()
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service: checking category name %q: %w", name, err)
	}

	category := &model.Category{
		Name:   name,
		UserID: userID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		s.logger.Error("failed to create category",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service: creating category: %w", err)
	}

	s.logger.Info("category created",
		slog.String("id", category.ID),
		slog.String("name", category.Name),
	)
	return category, nil
}

// Delete removes the category and, in the same operation, every item under
// it. The repository guarantees the cascade is atomic.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", slog.String("id", id))
	return nil
}
