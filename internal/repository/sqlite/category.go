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

// compile-time check that *CategoryRepo implements repository.CategoryRepository
var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implements repository.CategoryRepository on the shared
// database.
type CategoryRepo struct {
	db *DB
}

func NewCategoryRepo(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create inserts a new category owned by user_id, assigning the generated
// ID and timestamps on the passed struct.
func (r *CategoryRepo) Create(ctx context.Context, category *model.Category) error {
	now := time.Now()
	category.ID = xid.New().String()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		category.ID,
		category.Name,
		category.UserID,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID, or apperror.CategoryNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

// GetByName retrieves a category by its globally unique name. Used for the
// duplicate-name check before creation.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*model.Category, error) {
	return r.get(ctx, `WHERE name = ?`, name)
}

func (r *CategoryRepo) get(ctx context.Context, where string, arg any) (*model.Category, error) {
	var c model.Category

	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, name, user_id, created_at, updated_at
		 FROM categories `+where,
		arg,
	).Scan(
		&c.ID,
		&c.Name,
		&c.UserID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.CategoryNotFound()
		}
		return nil, fmt.Errorf("sqlite: getting category: %w", err)
	}

	return &c, nil
}

// List retrieves a page of categories. Ordered by ID: the generated IDs
// sort by creation time, so pages stay stable between requests.
func (r *CategoryRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Category, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, name, user_id, created_at, updated_at
		 FROM categories
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		opts.Limit,
		opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0, opts.Limit)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

// Count returns the total number of categories, for the pagination
// envelope.
func (r *CategoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting categories: %w", err)
	}
	return n, nil
}

// DeleteCascade removes a category and all of its items inside a single
// transaction, child rows first to satisfy the foreign key. Either
// everything is gone or nothing is; a concurrent reader never sees a
// half-finished cascade.
func (r *CategoryRepo) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning cascade delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting items of category %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.CategoryNotFound()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing cascade delete: %w", err)
	}
	return nil
}
