// Package repository declares the persistence interfaces the service and
// pipeline layers program against. The sqlite subpackage provides the
// concrete implementation; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/catalog-service/internal/model"
)

// ListOptions carries LIMIT/OFFSET style pagination into list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context, opts ListOptions) ([]model.Category, error)
	Count(ctx context.Context) (int, error)

	// DeleteCascade removes the category and every item under it as one
	// atomic unit. A reader never observes the items gone while the
	// category row remains, or the reverse.
	DeleteCascade(ctx context.Context, id string) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id string) (*model.Item, error)
	GetByName(ctx context.Context, name string) (*model.Item, error)
	ListByCategory(ctx context.Context, categoryID string, opts ListOptions) ([]model.Item, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id string) error
}
