package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/potluck-organizer/internal/model"
)

// ErrItemNotFound is returned when an item cannot be found in the DB.
var ErrItemNotFound = errors.New("item not found")

// ItemRepo encapsulates all database queries related to items.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo constructs an ItemRepo with the provided DB handle.
func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

// CreateIfBelowLimit inserts an item only while its category holds fewer
// items than the category's max_items. The count check and the insert are
// a single conditional INSERT ... SELECT statement, so two concurrent
// creations cannot both slip past the ceiling: the statement that loses
// affects zero rows and ErrAtCapacity is returned. The live max_items is
// read from the category row inside the same statement.
func (r *ItemRepo) CreateIfBelowLimit(ctx context.Context, it *model.Item) error {
	it.CreatedAt = time.Now().UTC().Truncate(time.Second)
	const q = `INSERT INTO items (category_id, name, description, claim_limit, created_by_admin, require_details, created_at)
	           SELECT c.id, ?, ?, ?, ?, ?, ?
	             FROM categories c
	            WHERE c.id = ?
	              AND (SELECT COUNT(*) FROM items i WHERE i.category_id = c.id) < c.max_items`
	res, err := r.db.ExecContext(ctx, q,
		it.Name, it.Description, it.ClaimLimit, it.CreatedByAdmin, it.RequireDetails, it.CreatedAt,
		it.CategoryID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAtCapacity
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// GetByID fetches an item by its ID. Returns ErrItemNotFound if no row is
// found.
func (r *ItemRepo) GetByID(ctx context.Context, id uint64) (*model.Item, error) {
	const q = `SELECT id, category_id, name, description, claim_limit, created_by_admin, require_details, created_at
	           FROM items WHERE id = ?`
	var it model.Item
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&it.ID, &it.CategoryID, &it.Name, &it.Description,
		&it.ClaimLimit, &it.CreatedByAdmin, &it.RequireDetails, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

// GetByIDForPotluck fetches an item by id but only if it belongs to the
// given potluck (through its category). Items addressed through a foreign
// potluck's slug are treated as not found.
func (r *ItemRepo) GetByIDForPotluck(ctx context.Context, id, potluckID uint64) (*model.Item, error) {
	const q = `SELECT i.id, i.category_id, i.name, i.description, i.claim_limit, i.created_by_admin, i.require_details, i.created_at
	           FROM items i
	           JOIN categories c ON c.id = i.category_id
	           WHERE i.id = ? AND c.potluck_id = ?`
	var it model.Item
	err := r.db.QueryRowContext(ctx, q, id, potluckID).Scan(
		&it.ID, &it.CategoryID, &it.Name, &it.Description,
		&it.ClaimLimit, &it.CreatedByAdmin, &it.RequireDetails, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

// Update rewrites an item's mutable fields. Lowering claim_limit below the
// current claim count is allowed; existing claims survive and only future
// claims are gated. Returns ErrItemNotFound when no row matches.
func (r *ItemRepo) Update(ctx context.Context, it *model.Item) error {
	const q = `UPDATE items SET name = ?, description = ?, claim_limit = ?, require_details = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, it.Name, it.Description, it.ClaimLimit, it.RequireDetails, it.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Delete removes an item; cascading foreign keys remove its claims.
// Returns ErrItemNotFound when no row matches.
func (r *ItemRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// CountClaims returns the number of claims currently on the item.
func (r *ItemRepo) CountClaims(ctx context.Context, id uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claims WHERE item_id = ?`, id).Scan(&n)
	return n, err
}
