package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/potluck-organizer/internal/model"
)

// ErrCategoryNotFound is returned when a category cannot be found in the DB.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepo encapsulates all database queries related to categories.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo constructs a CategoryRepo with the provided DB handle.
func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// Create inserts a new category under a potluck. Categories themselves are
// not capacity-bounded (only the items within them are), so this is a
// plain insert. The generated ID is populated on success.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	const q = `INSERT INTO categories (potluck_id, name, description, max_items, display_order)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.PotluckID, c.Name, c.Description, c.MaxItems, c.DisplayOrder)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a category by its ID regardless of parent. Returns
// ErrCategoryNotFound if no row is found.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	const q = `SELECT id, potluck_id, name, description, max_items, display_order
	           FROM categories WHERE id = ?`
	var c model.Category
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.PotluckID, &c.Name, &c.Description, &c.MaxItems, &c.DisplayOrder,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByIDForPotluck fetches a category by id but only if it belongs to the
// given potluck. Admin routes address categories through a potluck slug,
// so a category under a different potluck is treated as not found.
func (r *CategoryRepo) GetByIDForPotluck(ctx context.Context, id, potluckID uint64) (*model.Category, error) {
	const q = `SELECT id, potluck_id, name, description, max_items, display_order
	           FROM categories WHERE id = ? AND potluck_id = ?`
	var c model.Category
	err := r.db.QueryRowContext(ctx, q, id, potluckID).Scan(
		&c.ID, &c.PotluckID, &c.Name, &c.Description, &c.MaxItems, &c.DisplayOrder,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Update rewrites a category's mutable fields. Lowering max_items below
// the current item count is allowed; the new ceiling only gates future
// inserts. Returns ErrCategoryNotFound when no row matches.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	const q = `UPDATE categories SET name = ?, description = ?, max_items = ?, display_order = ?
	           WHERE id = ? AND potluck_id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Description, c.MaxItems, c.DisplayOrder, c.ID, c.PotluckID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category; cascading foreign keys remove its items and
// their claims. Returns ErrCategoryNotFound when no row matches.
func (r *CategoryRepo) Delete(ctx context.Context, id, potluckID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND potluck_id = ?`, id, potluckID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// CountItems returns the number of items currently in the category.
func (r *CategoryRepo) CountItems(ctx context.Context, id uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE category_id = ?`, id).Scan(&n)
	return n, err
}
