package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/catalog-service/internal/apperror"
	"github.com/sakif/catalog-service/internal/model"
	"github.com/sakif/catalog-service/internal/repository"
)

// compile-time check that *ItemRepo implements repository.ItemRepository
var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implements repository.ItemRepository on the shared database.
type ItemRepo struct {
	db *DB
}

func NewItemRepo(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// Create inserts a new item under its category.
func (r *ItemRepo) Create(ctx context.Context, item *model.Item) error {
	now := time.Now()
	item.ID = xid.New().String()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO items (id, name, description, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Name,
		item.Description,
		item.CategoryID,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by ID regardless of category.
//
// The caller is responsible for checking that the item belongs to the
// expected parent; an item found under the wrong category must be reported
// exactly like a missing one, and that masking decision lives in the
// pipeline, not here.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

// GetByName retrieves an item by its globally unique name, for the
// duplicate-name checks on create and update.
func (r *ItemRepo) GetByName(ctx context.Context, name string) (*model.Item, error) {
	return r.get(ctx, `WHERE name = ?`, name)
}

func (r *ItemRepo) get(ctx context.Context, where string, arg any) (*model.Item, error) {
	var it model.Item

	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, category_id, created_at, updated_at
		 FROM items `+where,
		arg,
	).Scan(
		&it.ID,
		&it.Name,
		&it.Description,
		&it.CategoryID,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ItemNotFound()
		}
		return nil, fmt.Errorf("sqlite: getting item: %w", err)
	}

	return &it, nil
}

// ListByCategory retrieves a page of the category's items, ordered by ID
// (creation order, since the IDs are time-sortable).
func (r *ItemRepo) ListByCategory(ctx context.Context, categoryID string, opts repository.ListOptions) ([]model.Item, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, name, description, category_id, created_at, updated_at
		 FROM items
		 WHERE category_id = ?
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		categoryID,
		opts.Limit,
		opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items: %w", err)
	}
	defer rows.Close()

	items := make([]model.Item, 0, opts.Limit)
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.CategoryID, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating items: %w", err)
	}

	return items, nil
}

// CountByCategory returns the number of items under one category.
func (r *ItemRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE category_id = ?`, categoryID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting items: %w", err)
	}
	return n, nil
}

// Update rewrites an item's mutable fields (name, description). Category
// membership is immutable, so category_id is deliberately absent from the
// SET clause.
func (r *ItemRepo) Update(ctx context.Context, item *model.Item) error {
	item.UpdatedAt = time.Now()

	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE items
		 SET name = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		item.Name,
		item.Description,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating item %s: %w", item.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.ItemNotFound()
	}

	return nil
}

// Delete removes a single item by ID.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting item %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.ItemNotFound()
	}

	return nil
}
