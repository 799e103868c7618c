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

// ItemPage is one page of a category's item listing.
type ItemPage struct {
	Page    int
	PerPage int
	Total   int
	Items   []model.Item
}

// ItemUpdate carries the optional fields of a partial update. A nil field
// means "leave unchanged"; the validation layer has already guaranteed at
// least one is set.
type ItemUpdate struct {
	Name        *string
	Description *string
}

// ItemService handles item business logic. As with categories, parent
// resolution and ownership checks have already run in the pipeline.
type ItemService struct {
	items  repository.ItemRepository
	logger *slog.Logger
}

func NewItemService(items repository.ItemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		items:  items,
		logger: logger,
	}
}

// ListByCategory returns one page of the category's items. Same pagination
// semantics as the category listing: page below 1 becomes 1, page past the
// end is an empty list.
func (s *ItemService) ListByCategory(ctx context.Context, categoryID string, page, perPage int) (*ItemPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.items.CountByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("service: counting items: %w", err)
	}

	items, err := s.items.ListByCategory(ctx, categoryID, repository.ListOptions{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("service: listing items: %w", err)
	}

	return &ItemPage{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Items:   items,
	}, nil
}

// Create adds an item under the category. Item names are globally unique,
// like category names.
func (s *ItemService) Create(ctx context.Context, categoryID, name, description string) (*model.Item, error) {
	_, err := s.items.GetByName(ctx, name)
	if err == nil {
		return nil, apperror.ItemAlreadyExists()
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service: checking item name %q: %w", name, err)
	}

	item := &model.Item{
		Name:        name,
		Description: description,
		CategoryID:  categoryID,
	}
	if err := s.items.Create(ctx, item); err != nil {
		s.logger.Error("failed to create item",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service: creating item: %w", err)
	}

	s.logger.Info("item created",
		slog.String("id", item.ID),
		slog.String("categoryID", categoryID),
	)
	return item, nil
}

// Update applies a partial update to an already-resolved item. When a new
// name is supplied, the collision probe excludes the item itself:
// re-submitting the current name is a no-op, not a conflict.
func (s *ItemService) Update(ctx context.Context, item *model.Item, update ItemUpdate) error {
	if update.Name != nil {
		existing, err := s.items.GetByName(ctx, *update.Name)
		if err == nil && existing.ID != item.ID {
			return apperror.ItemAlreadyExists()
		}
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return fmt.Errorf("service: checking item name %q: %w", *update.Name, err)
		}
		item.Name = *update.Name
	}
	if update.Description != nil {
		item.Description = *update.Description
	}

	if err := s.items.Update(ctx, item); err != nil {
		s.logger.Error("failed to update item",
			slog.String("id", item.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service: updating item: %w", err)
	}

	s.logger.Info("item updated", slog.String("id", item.ID))
	return nil
}

// Delete removes a single item.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("item deleted", slog.String("id", id))
	return nil
}
